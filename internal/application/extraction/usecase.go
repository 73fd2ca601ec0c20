// Package extraction contiene el caso de uso de extracción de facturas
// asistida por IA: convierte un documento subido (o texto pegado) en una venta
// candidata que un humano confirma antes de guardar.
package extraction

import (
	"context"
	"time"

	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/application/ports"
	"github.com/jhoicas/comi-api/internal/domain"
)

// extractTimeout acota la llamada al servicio externo de extracción.
const extractTimeout = 60 * time.Second

// UseCase caso de uso de extracción de documentos.
type UseCase struct {
	extractor ports.DocumentExtractor
}

// NewUseCase construye el caso de uso con el adaptador de extracción.
func NewUseCase(extractor ports.DocumentExtractor) *UseCase {
	return &UseCase{extractor: extractor}
}

// Extract analiza el documento y devuelve la venta candidata. Nunca escribe en
// el almacén: el resultado pasa siempre por confirmación humana.
func (uc *UseCase) Extract(ctx context.Context, in ports.ExtractionInput) (*dto.ExtractedSaleDTO, error) {
	if len(in.FileContent) == 0 && in.Text == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.FileContent) > 0 && in.MimeType == "" {
		return nil, domain.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	return uc.extractor.ExtractSaleDocument(ctx, in)
}
