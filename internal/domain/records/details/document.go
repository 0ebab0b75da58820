package details

// Document referencia un archivo ya subido a blob storage.
// La subida en sí vive fuera de este servicio; acá sólo metadata.
type Document struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	StorageKey  string `json:"storage_key"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}
