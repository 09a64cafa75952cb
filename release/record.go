package release

// FileRecord describes one downloadable artifact found below the root directory.
type FileRecord struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Size        string `json:"size"`
	DownloadURL string `json:"download_url"`
}

func NewFileRecord(name string, path string, size int64, downloadURL string) FileRecord {
	return FileRecord{
		Name:        name,
		Path:        path,
		Version:     ExtractVersion(name),
		Description: Describe(name),
		Size:        FormatSize(size),
		DownloadURL: downloadURL,
	}
}

// JoinPath appends name to a root-relative prefix. An empty prefix denotes the root itself.
func JoinPath(prefix string, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
