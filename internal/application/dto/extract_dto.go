package dto

import "github.com/shopspring/decimal"

// ExtractedItemDTO un artículo candidato extraído de un documento de factura.
type ExtractedItemDTO struct {
	Artigo        string          `json:"artigo"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	TipoSugerido  string          `json:"tipo_sugerido"` // ej. Hardware, Software, Serviço
}

// ExtractedSaleDTO resultado best-effort de la extracción de un documento.
// Es solo un candidato: un humano lo confirma/corrige antes de que entre al
// sistema como una venta normal. El motor de cálculo nunca consume esto
// directamente.
type ExtractedSaleDTO struct {
	NumeroFatura string             `json:"numero_fatura"`
	Data         string             `json:"data"` // YYYY-MM-DD, puede venir vacío
	ClienteNome  string             `json:"cliente_nome"`
	Itens        []ExtractedItemDTO `json:"itens"`
}
