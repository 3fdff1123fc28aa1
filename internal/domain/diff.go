package domain

// DiffSegment é um trecho do diff linha a linha. Quando Added e Removed são
// ambos falsos o trecho é contexto inalterado.
type DiffSegment struct {
	Value   string `json:"value"`
	Added   bool   `json:"added,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// DiffResponse é derivada e nunca persistida: comparação entre duas versões.
type DiffResponse struct {
	VersaoBase *Versao       `json:"versaoBase"`
	VersaoNova *Versao       `json:"versaoNova"`
	Diffs      []DiffSegment `json:"diffs"`
	HTMLDiff   string        `json:"htmlDiff,omitempty"`
	Added      int           `json:"added"`
	Removed    int           `json:"removed"`
	Modified   int           `json:"modified"`
}
