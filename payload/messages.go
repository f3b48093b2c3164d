package payload

import (
	"fmt"

	"github.com/vectorgov/vectorgov-go/models"
)

// Message is one chat-completion message in the role/content convention
// shared by the major LLM APIs.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages builds the two-message chat form: the XML knowledge package as
// the system message and the bare question as the user message. An empty
// query falls back to the result's own query text.
func Messages(result models.Result, query, level string) ([]Message, error) {
	if query == "" {
		query = result.QueryText()
	}
	xml, err := Serialize(result, level)
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: xml},
		{Role: "user", Content: query},
	}, nil
}

// Prompt builds the single-string form for APIs without a system/user split:
// the XML package, the question, and a trailing answer marker.
func Prompt(result models.Result, query, level string) (string, error) {
	if query == "" {
		query = result.QueryText()
	}
	xml, err := Serialize(result, level)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\nPergunta: %s\n\nResposta:", xml, query), nil
}
