package entity

// IndexStatus summarizes the backend document index.
type IndexStatus struct {
	Documents int
	Chunks    int
	UpdatedAt string
}

// UploadSummary reports the outcome of one ingested file.
type UploadSummary struct {
	Filename string
	Chunks   int
}
