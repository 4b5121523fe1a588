package models

// SourceRecord is one spreadsheet response row: the uploaded photo's share-link
// and the stave count typed in by the operator.
type SourceRecord struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Count      string `json:"count" yaml:"count"`
}

// LocalFile is a photo found in the data directory.
type LocalFile struct {
	Path      string `yaml:"path"`
	BaseName  string `yaml:"base_name"`
	Extension string `yaml:"extension"`
}

// Name returns the file's name within its directory.
func (f LocalFile) Name() string {
	return f.BaseName + f.Extension
}
