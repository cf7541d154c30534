package llm

import (
	"context"
	"encoding/json"
	"log"

	genai "google.golang.org/genai"
)

// WithLogging logs request size and errors per stage. Pass nil to use
// log.Default().
func WithLogging(base Client, logger *log.Logger) Client {
	if logger == nil {
		logger = log.Default()
	}
	return &logging{next: base, log: logger}
}

type logging struct {
	next Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, system, user string, schema *genai.Schema) (json.RawMessage, error) {
	l.log.Printf("LLM request (%s): %d bytes", StageFrom(ctx), len(system)+len(user))
	raw, err := l.next.GenerateJSON(ctx, system, user, schema)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", StageFrom(ctx), err)
	}
	return raw, err
}
