package http

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/application/extraction"
	"github.com/jhoicas/comi-api/internal/application/ports"
	"github.com/jhoicas/comi-api/internal/domain"
)

// maxExtractFileSize límite del documento subido (10 MB).
const maxExtractFileSize = 10 << 20

// ExtractHandler maneja la extracción de facturas asistida por IA (protegido).
type ExtractHandler struct {
	uc *extraction.UseCase
}

// NewExtractHandler construye el handler.
func NewExtractHandler(uc *extraction.UseCase) *ExtractHandler {
	return &ExtractHandler{uc: uc}
}

// Extract POST /api/sales/extract
//
// Acepta multipart con campo "file" (imagen o PDF) o un campo de formulario
// "text" con el contenido pegado. Devuelve la venta candidata para que el
// usuario la confirme; nunca escribe en la base de datos.
func (h *ExtractHandler) Extract(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	var in ports.ExtractionInput
	if fileHeader, err := c.FormFile("file"); err == nil {
		if fileHeader.Size > maxExtractFileSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el documento supera los 10 MB"})
		}
		f, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el fichero"})
		}
		defer f.Close()
		content, err := io.ReadAll(io.LimitReader(f, maxExtractFileSize))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el fichero"})
		}
		in.FileContent = content
		in.MimeType = fileHeader.Header.Get("Content-Type")
	} else {
		in.Text = c.FormValue("text")
	}

	out, err := h.uc.Extract(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere un fichero o texto a extraer"})
		}
		if isTimeout(err) {
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "el servicio de extracción tardó demasiado; intenta de nuevo"})
		}
		if strings.Contains(err.Error(), "OPENROUTER_API_KEY") {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AI_UNAVAILABLE", Message: "el servicio de extracción no está configurado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// isTimeout detecta errores de timeout/cancelación de contexto en el mensaje de error.
func isTimeout(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "cancelación")
}
