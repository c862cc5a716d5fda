package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db-path" description:"Path to the SQLite database (overrides JOBTRACK_DB_PATH and config)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// FilterFlags are the query flags shared by search and export.
type FilterFlags struct {
	Status string `long:"status" description:"Only applications with this status (value or label)"`
	Domain string `long:"domain" description:"Only applications from this domain"`
	From   string `long:"from" description:"Applied on or after this date (YYYY-MM-DD)"`
	To     string `long:"to" description:"Applied on or before this date (YYYY-MM-DD)"`
	Range  string `long:"range" description:"Rolling window: today | week | month"`
	Sort   string `long:"sort" description:"Sort order: date-desc | date-asc | title | company" default:"date-desc"`
}

// AddCommand records an application.
type AddCommand struct {
	URL      string `long:"url" description:"Job posting URL (required)"`
	Title    string `long:"title" description:"Job title"`
	Company  string `long:"company" description:"Company name"`
	Location string `long:"location" description:"Job location"`
	Status   string `long:"status" description:"Application status (default: applied)"`
	Notes    string `long:"notes" description:"Free-form notes"`
	ID       string `long:"id" description:"Record ID (generated when empty)"`

	globals *GlobalFlags
}

// ShowCommand looks up one application by ID or URL.
type ShowCommand struct {
	ID  string `long:"id" description:"Application ID"`
	URL string `long:"url" description:"Job posting URL"`

	globals *GlobalFlags
}

// UpdateCommand changes fields of an existing application. Only flags
// that are given are applied.
type UpdateCommand struct {
	ID       string  `long:"id" description:"Application ID (required)"`
	URL      *string `long:"url" description:"New job posting URL"`
	Title    *string `long:"title" description:"New job title"`
	Company  *string `long:"company" description:"New company name"`
	Location *string `long:"location" description:"New location"`
	Status   *string `long:"status" description:"New status (value or label)"`
	Notes    *string `long:"notes" description:"New notes"`
	Applied  *string `long:"applied" description:"New application date (YYYY-MM-DD)"`

	globals *GlobalFlags
}

// DeleteCommand removes an application.
type DeleteCommand struct {
	ID string `long:"id" description:"Application ID (required)"`

	globals *GlobalFlags
}

// SearchCommand searches applications by text with filters.
type SearchCommand struct {
	FilterFlags

	globals *GlobalFlags
}

// StatsCommand shows application statistics.
type StatsCommand struct {
	globals *GlobalFlags
	version string
}

// ExportCommand writes applications as JSON or CSV.
type ExportCommand struct {
	FilterFlags

	Format  string `long:"format" description:"Output format: json | csv" default:"json"`
	Output  string `long:"output" short:"o" description:"Write to file instead of stdout"`
	Summary bool   `long:"summary" description:"Print a plain-text summary instead of the data"`

	globals *GlobalFlags
}

// ImportCommand loads applications from a JSON or CSV file.
type ImportCommand struct {
	Format string `long:"format" description:"Input format: json | csv (default: from file extension)"`

	globals *GlobalFlags
}

// PurgeCommand deletes ALL data after a safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
}

// SettingsCommand shows or changes stored user settings.
type SettingsCommand struct {
	Theme           string `long:"theme" description:"UI theme (light | dark)"`
	OverlayPosition string `long:"overlay-position" description:"Overlay position (top | bottom)"`
	Overlay         string `long:"overlay" description:"Enable the page overlay: on | off"`
	Notifications   string `long:"notifications" description:"Enable notifications: on | off"`

	globals *GlobalFlags
}
