package nl2sql

import "context"

type Request struct {
	SchemaText      string `json:"schema_text"`
	NaturalLanguage string `json:"natural_language"`
}

type Result struct {
	SQL   string `json:"sql"`
	Model string `json:"model"`
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}
