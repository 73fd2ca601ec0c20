package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/application/ports"
)

// Verificar en tiempo de compilación que OpenRouterService implementa DocumentExtractor.
var _ ports.DocumentExtractor = (*OpenRouterService)(nil)

const (
	openRouterChatURL = "https://openrouter.ai/api/v1/chat/completions"

	extractionSystemPrompt = `És um assistente que extrai dados de faturas de venda portuguesas.
Devolve APENAS um objeto JSON válido (sem markdown, sem blocos de código` + " ```json" + `) com esta estrutura exata:
{
  "numero_fatura": "<número da fatura como string, vazio se não encontrado>",
  "data": "<data da venda em formato YYYY-MM-DD, vazio se não encontrada>",
  "cliente_nome": "<nome do cliente, vazio se não encontrado>",
  "itens": [
    {
      "artigo": "<descrição do artigo>",
      "quantidade": <número>,
      "preco_unitario": <número decimal>,
      "tipo_sugerido": "<Hardware | Software | Serviço | Outro>"
    }
  ]
}

Regras:
- Extrai todos os artigos que conseguires identificar no documento.
- Se um valor não estiver presente, usa string vazia ou 0; nunca inventes dados.
- Não incluas texto fora do JSON. Apenas o objeto JSON.`
)

// OpenRouterService adaptador que implementa DocumentExtractor usando la API de
// chat completions de OpenRouter. Usa net/http de la librería estándar; no
// requiere SDK.
type OpenRouterService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenRouterService construye el adaptador.
// model suele ser "google/gemini-2.0-flash-001" u otro modelo con visión.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewOpenRouterService(apiKey, model string) *OpenRouterService {
	return &OpenRouterService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Timeout de red de 55 s; el use case impone además su propio context.WithTimeout.
			Timeout: 55 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo de chat completions ────────────────────

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string o []contentPart
}

type contentPart struct {
	Type     string        `json:"type"` // text | image_url
	Text     string        `json:"text,omitempty"`
	ImageURL *contentImage `json:"image_url,omitempty"`
}

type contentImage struct {
	URL string `json:"url"` // data URL base64
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// extractedPayload es la forma del JSON que devuelve el modelo.
type extractedPayload struct {
	NumeroFatura string `json:"numero_fatura"`
	Data         string `json:"data"`
	ClienteNome  string `json:"cliente_nome"`
	Itens        []struct {
		Artigo        string          `json:"artigo"`
		Quantidade    decimal.Decimal `json:"quantidade"`
		PrecoUnitario decimal.Decimal `json:"preco_unitario"`
		TipoSugerido  string          `json:"tipo_sugerido"`
	} `json:"itens"`
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo
// envuelva en markdown. Captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// ── Implementación del puerto ─────────────────────────────────────────────────

// ExtractSaleDocument envía el documento (imagen/PDF en base64 o texto pegado)
// al modelo y devuelve la venta candidata extraída. Temperatura baja: queremos
// extracción literal, no creatividad.
func (s *OpenRouterService) ExtractSaleDocument(ctx context.Context, in ports.ExtractionInput) (*dto.ExtractedSaleDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: OPENROUTER_API_KEY no configurado")
	}

	var userContent any
	if len(in.FileContent) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", in.MimeType, base64.StdEncoding.EncodeToString(in.FileContent))
		userContent = []contentPart{
			{Type: "text", Text: "Extrai os dados desta fatura."},
			{Type: "image_url", ImageURL: &contentImage{URL: dataURL}},
		}
	} else {
		userContent = "Extrai os dados desta fatura:\n\n" + in.Text
	}

	payload := chatRequest{
		Model:       s.model,
		Temperature: 0.1,
		Messages: []chatMessage{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: userContent},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterChatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chatResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: OpenRouter error: %s", errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: OpenRouter HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(rawBody, &chatResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta OpenRouter: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("AI: el modelo devolvió respuesta vacía")
	}

	rawText := chatResp.Choices[0].Message.Content

	// Parseo seguro: extraer solo el bloque JSON aunque el modelo añada texto.
	cleanJSON := extractJSON(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}

	var extracted extractedPayload
	if err := json.Unmarshal([]byte(cleanJSON), &extracted); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de extracción: %w (JSON extraído: %s)", err, cleanJSON)
	}

	out := &dto.ExtractedSaleDTO{
		NumeroFatura: extracted.NumeroFatura,
		Data:         extracted.Data,
		ClienteNome:  extracted.ClienteNome,
		Itens:        make([]dto.ExtractedItemDTO, 0, len(extracted.Itens)),
	}
	for _, item := range extracted.Itens {
		out.Itens = append(out.Itens, dto.ExtractedItemDTO{
			Artigo:        item.Artigo,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			TipoSugerido:  item.TipoSugerido,
		})
	}
	return out, nil
}

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		// Quitar la línea de apertura (```json o ```)
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		// Quitar el cierre ```
		if close := strings.LastIndex(after, "```"); close != -1 {
			after = after[:close]
		}
		text = strings.TrimSpace(after)
	}

	// Si el texto resultante ya empieza con '{', usarlo directamente
	if strings.HasPrefix(text, "{") {
		return text
	}

	// Fallback: regex para extraer el primer {...}
	match := jsonBlockRe.FindString(text)
	return strings.TrimSpace(match)
}
