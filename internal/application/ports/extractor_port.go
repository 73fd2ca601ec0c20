package ports

import (
	"context"

	"github.com/jhoicas/comi-api/internal/application/dto"
)

// ExtractionInput documento a analizar: o un fichero (imagen/PDF) o texto
// pegado; nunca ambos.
type ExtractionInput struct {
	FileContent []byte
	MimeType    string
	Text        string
}

// DocumentExtractor define el puerto de salida hacia el servicio de extracción
// de facturas asistida por IA. Cualquier adaptador (OpenRouter, mock) debe
// implementar esta interfaz; la aplicación solo conoce este contrato.
// El contexto debe llevar timeout: es una llamada de red externa.
type DocumentExtractor interface {
	ExtractSaleDocument(ctx context.Context, in ExtractionInput) (*dto.ExtractedSaleDTO, error)
}
