package registry

import (
	"context"

	"safemed/internal/domain/accessrequests"
)

// Directory implementa accessrequests.PatientDirectory contra el registro
// externo, con fallback a un directorio local (las fichas del servicio)
// cuando el registro no está configurado.
type Directory struct {
	client   *Client
	fallback accessrequests.PatientDirectory
}

func NewDirectory(client *Client, fallback accessrequests.PatientDirectory) *Directory {
	return &Directory{
		client:   client,
		fallback: fallback,
	}
}

func (d *Directory) Exists(ctx context.Context, patientID string) (bool, error) {
	if d.client.IsConfigured() {
		return d.client.PatientExists(ctx, patientID)
	}
	if d.fallback != nil {
		return d.fallback.Exists(ctx, patientID)
	}
	return false, ErrRegistryNotConfigured
}
