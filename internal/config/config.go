package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"fo-go/internal/model"
)

// Config is the full configuration for fo. It is constructed once at the
// CLI boundary, validated, and passed by value-reference to every component
// constructor; there is no ambient configuration singleton.
type Config struct {
	Organization OrganizationConfig `toml:"organization"`
	Safety       SafetyConfig       `toml:"safety"`
	Sources      SourcesConfig      `toml:"sources"`
	Encryption   EncryptionConfig   `toml:"encryption"`
	Log          LogConfig          `toml:"log"`
}

// OrganizationConfig controls destination layout and naming.
type OrganizationConfig struct {
	// BasePath is the root of the organized destination tree.
	BasePath string `toml:"base_path"`

	// Structure is the destination template. Placeholders: {project}
	// {category} {year} {month} {day} {filename} {original_name}
	// {extension}. Unknown placeholders are left literal.
	Structure string `toml:"structure"`

	// Categories is an ordered list; the first category whose extension set
	// contains a record's extension wins. Order here is the tie-break.
	Categories []CategoryConfig `toml:"categories"`

	Projects ProjectsConfig `toml:"projects"`
	Naming   NamingConfig   `toml:"naming"`
}

// CategoryConfig maps a category name to its extension set.
type CategoryConfig struct {
	Name       string   `toml:"name"`
	Extensions []string `toml:"extensions"`
}

// ProjectsConfig controls project inference.
type ProjectsConfig struct {
	// Default is the project label used when nothing else matches.
	Default string `toml:"default"`

	// Patterns are checked in order; the first pattern with a keyword
	// appearing in "{filename} {parent_folder}" wins.
	Patterns []PatternConfig `toml:"patterns"`
}

// PatternConfig is one keyword-based project detection rule.
type PatternConfig struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

// NamingConfig controls the filename sub-template.
type NamingConfig struct {
	// Template placeholders: {original_name} {date} {year} {month} {day}
	// {project} {category}. The original extension is appended afterwards.
	Template string `toml:"template"`

	// DateFormat is a strftime-style format for the {date} placeholder.
	DateFormat string `toml:"date_format"`

	Lowercase bool `toml:"lowercase"`

	// ReplaceSpaces, when non-empty, substitutes every space in the
	// formatted name.
	ReplaceSpaces string `toml:"replace_spaces"`

	// MaxLength truncates the formatted filename from the right, preserving
	// the extension.
	MaxLength int `toml:"max_length"`
}

// SafetyConfig controls execution behavior.
type SafetyConfig struct {
	Mode               string `toml:"mode"` // "copy" or "move"
	CreateBackup       bool   `toml:"create_backup"`
	BackupPath         string `toml:"backup_path"`
	EncryptBackups     bool   `toml:"encrypt_backups"`
	DryRunDefault      bool   `toml:"dry_run_default"`
	ConflictResolution string `toml:"conflict_resolution"`
	PreserveTimestamps bool   `toml:"preserve_timestamps"`
}

// SourcesConfig enables and configures the three source scanners.
type SourcesConfig struct {
	Local      LocalSourceConfig      `toml:"local"`
	GitHub     GitHubSourceConfig     `toml:"github"`
	CloudDrive CloudDriveSourceConfig `toml:"clouddrive"`
}

// LocalSourceConfig configures the local filesystem scanner.
type LocalSourceConfig struct {
	Enabled         bool     `toml:"enabled"`
	Paths           []string `toml:"paths"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

// GitHubSourceConfig configures the repository scanner. Repos are
// "owner/name" identifiers; archives are downloaded and extracted under
// CachePath.
type GitHubSourceConfig struct {
	Enabled   bool     `toml:"enabled"`
	CachePath string   `toml:"cache_path"`
	Repos     []string `toml:"repos"`
	Ref       string   `toml:"ref,omitempty"` // empty means default branch
}

// CloudDriveSourceConfig configures the S3-backed cloud-drive scanner.
// Objects under Bucket/Prefix are downloaded into CachePath before being
// described as file records. Credentials fall back to the ambient AWS
// config chain when the static keys are empty.
type CloudDriveSourceConfig struct {
	Enabled         bool   `toml:"enabled"`
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix,omitempty"`
	Region          string `toml:"region"`
	CachePath       string `toml:"cache_path"`
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for backup
// encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "none"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// LogConfig holds logging and transaction-log settings.
type LogConfig struct {
	Dir          string               `toml:"dir"`
	Transactions TransactionLogConfig `toml:"transactions"`
}

// TransactionLogConfig selects the transaction-log backend.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type TransactionLogConfig struct {
	Type    string `toml:"type"`               // "json", "sqlite", or "memory"
	Path    string `toml:"path,omitempty"`     // only used for type=json
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a Config with the default organization rules rooted at
// the given base directory.
func NewConfig(baseDir string) *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = baseDir
	}
	return &Config{
		Organization: OrganizationConfig{
			BasePath:   filepath.Join(home, "OrganizedFiles"),
			Structure:  "{project}/{category}/{year}/{filename}",
			Categories: DefaultCategories(),
			Projects: ProjectsConfig{
				Default: "Uncategorized",
			},
			Naming: NamingConfig{
				Template:      "{original_name}",
				DateFormat:    "%Y%m%d",
				ReplaceSpaces: "_",
				MaxLength:     255,
			},
		},
		Safety: SafetyConfig{
			Mode:               string(model.OperationCopy),
			CreateBackup:       true,
			BackupPath:         filepath.Join(baseDir, "backups"),
			DryRunDefault:      true,
			ConflictResolution: string(model.ConflictRename),
			PreserveTimestamps: true,
		},
		Sources: SourcesConfig{
			Local: LocalSourceConfig{
				Enabled: true,
				ExcludePatterns: []string{
					"node_modules", ".git", "__pycache__", ".venv", "venv",
					".DS_Store", "Thumbs.db", ".idea", ".vscode",
				},
			},
			GitHub: GitHubSourceConfig{
				CachePath: filepath.Join(baseDir, "github-cache"),
			},
			CloudDrive: CloudDriveSourceConfig{
				CachePath: filepath.Join(baseDir, "clouddrive-cache"),
			},
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "fo.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "fo.key"),
		},
		Log: LogConfig{
			Dir: filepath.Join(baseDir, "log"),
			Transactions: TransactionLogConfig{
				Type: "json",
				Path: filepath.Join(baseDir, "transactions.json"),
			},
		},
	}
}

// DefaultCategories returns the built-in ordered category mapping.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "code", Extensions: []string{
			".py", ".js", ".java", ".cpp", ".h", ".c", ".cs", ".go",
			".rs", ".rb", ".php", ".swift", ".kt", ".ts", ".jsx", ".tsx"}},
		{Name: "documents", Extensions: []string{
			".pdf", ".docx", ".doc", ".txt", ".md", ".rtf", ".odt",
			".tex", ".pages"}},
		{Name: "images", Extensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".svg", ".bmp", ".webp",
			".ico", ".tiff", ".psd", ".ai"}},
		{Name: "audio", Extensions: []string{
			".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac", ".wma"}},
		{Name: "video", Extensions: []string{
			".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm",
			".m4v", ".mpeg"}},
		{Name: "archives", Extensions: []string{
			".zip", ".tar", ".gz", ".rar", ".7z", ".bz2", ".xz"}},
		{Name: "data", Extensions: []string{
			".json", ".csv", ".xml", ".yaml", ".yml", ".sql", ".db",
			".sqlite"}},
		{Name: "spreadsheets", Extensions: []string{".xlsx", ".xls", ".ods", ".numbers"}},
		{Name: "presentations", Extensions: []string{".pptx", ".ppt", ".odp", ".key"}},
	}
}

// Validate checks the configuration for values the core assumes are
// well-formed. It is called once at the CLI boundary; the core does not
// re-validate.
func (c *Config) Validate() error {
	if c.Organization.BasePath == "" {
		return fmt.Errorf("organization.base_path is required")
	}
	if c.Organization.Structure == "" {
		return fmt.Errorf("organization.structure is required")
	}
	if !model.OperationKind(c.Safety.Mode).Valid() {
		return fmt.Errorf("safety.mode must be %q or %q, got %q",
			model.OperationCopy, model.OperationMove, c.Safety.Mode)
	}
	if !model.ConflictStrategy(c.Safety.ConflictResolution).Valid() {
		return fmt.Errorf("safety.conflict_resolution %q is not a known strategy", c.Safety.ConflictResolution)
	}
	if c.Safety.CreateBackup && c.Safety.BackupPath == "" {
		return fmt.Errorf("safety.backup_path is required when backups are enabled")
	}
	if c.Organization.Naming.MaxLength <= 0 {
		return fmt.Errorf("organization.naming.max_length must be positive")
	}
	for i, cat := range c.Organization.Categories {
		if cat.Name == "" {
			return fmt.Errorf("organization.categories[%d] has no name", i)
		}
	}
	switch c.Log.Transactions.Type {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown transaction log type: %s", c.Log.Transactions.Type)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

// Save writes the configuration back to the given path, overwriting it.
// Used by commands that mutate config, such as adding a project pattern.
func Save(path string, cfg *Config) error {
	return writeToFile(path, cfg)
}

// AddProjectPattern appends a keyword-based project detection pattern.
func (c *Config) AddProjectPattern(name string, keywords []string) {
	c.Organization.Projects.Patterns = append(c.Organization.Projects.Patterns, PatternConfig{
		Name:     name,
		Keywords: keywords,
	})
}
