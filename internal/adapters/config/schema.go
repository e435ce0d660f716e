package config

// Sitefile represents the structure of the sitedims.yaml configuration file.
// Pointer fields distinguish "unset" from the zero value so defaults survive.
type Sitefile struct {
	Version     string       `yaml:"version"`
	Root        string       `yaml:"root"`
	Content     string       `yaml:"content"`
	Output      string       `yaml:"output"`
	Static      string       `yaml:"static"`
	Staging     string       `yaml:"staging"`
	Cache       string       `yaml:"cache"`
	Offline     *bool        `yaml:"offline"`
	Strict      *bool        `yaml:"strict"`
	Concurrency *int         `yaml:"concurrency"`
	Fetch       FetchDTO     `yaml:"fetch"`
	Probe       ProbeDTO     `yaml:"probe"`
	Markdown    *MarkdownDTO `yaml:"markdown"`
}

// FetchDTO represents the remote fetch settings.
type FetchDTO struct {
	Attempts *int   `yaml:"attempts"`
	Timeout  string `yaml:"timeout"`
}

// ProbeDTO represents the media probe settings.
type ProbeDTO struct {
	Command string `yaml:"command"`
}

// MarkdownDTO represents the Markdown render settings.
type MarkdownDTO struct {
	Extensions []string `yaml:"extensions"`
}
