package envelope

import (
	"encoding/json"
	"fmt"

	"promptsmith/internal/jsonutil"
	"promptsmith/internal/schema"
)

// SchemaViolation reports model output that failed validation against its
// stage schema. The offending raw text rides along so operators can inspect
// drift in model behavior.
type SchemaViolation struct {
	Schema schema.ID
	Raw    json.RawMessage
	Err    error
}

func (v *SchemaViolation) Error() string {
	return fmt.Sprintf("envelope: output does not satisfy %s: %v\nraw: %s", v.Schema, v.Err, string(v.Raw))
}

func (v *SchemaViolation) Unwrap() error { return v.Err }

// Decode validates raw model text against the stage schema registered under
// id and returns the typed envelope. Validation is strict: unknown fields
// are violations, not noise to drop, because the model can format things
// differently run to run and silent tolerance would mask drift.
func Decode(raw json.RawMessage, id schema.ID) (*Envelope, error) {
	s, ok := schema.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("envelope: no schema registered for %s", id)
	}

	// Validate the model's bytes as-is; fall back to a normalized encoding
	// when the model quoted or double-escaped its payload.
	canon := []byte(raw)
	if err := schema.Validate(canon, s); err != nil {
		norm, normErr := jsonutil.Normalize(canon)
		if normErr != nil || schema.Validate(norm, s) != nil {
			return nil, &SchemaViolation{Schema: id, Raw: raw, Err: err}
		}
		canon = norm
	}

	var env Envelope
	if err := jsonutil.UnmarshalFlex(canon, &env); err != nil {
		return nil, &SchemaViolation{Schema: id, Raw: raw, Err: err}
	}

	// errors carries fatal issues exactly when the stage reports blocked.
	if env.TaskState == TaskBlocked && len(env.Errors) == 0 {
		return nil, &SchemaViolation{Schema: id, Raw: raw, Err: fmt.Errorf("task_state is blocked but errors is empty")}
	}
	if env.TaskState != TaskBlocked && len(env.Errors) > 0 {
		return nil, &SchemaViolation{Schema: id, Raw: raw, Err: fmt.Errorf("errors is populated but task_state is %s", env.TaskState)}
	}

	env.Raw = canon
	return &env, nil
}
