//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"rps-lite/replay"
	"rps-lite/rps/npc"
)

type generateRequest struct {
	Spec replay.SessionSpec `json:"spec"`
}

type generateResponse struct {
	OK    bool                `json:"ok"`
	Tape  *replay.WireTape    `json:"tape,omitempty"`
	Error *replay.ReplayError `json:"error,omitempty"`
}

func main() {
	js.Global().Set("__rpsReplayGenerate", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(generateResponse{
				Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_request", Message: "missing request payload"},
			})
		}
		return mustJSON(handleGenerate(args[0].String()))
	}))

	select {}
}

func handleGenerate(raw string) generateResponse {
	var req generateRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return generateResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_json", Message: err.Error()},
		}
	}

	personas, err := npc.NewDefaultRegistry()
	if err != nil {
		return generateResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "personas_unavailable", Message: err.Error()},
		}
	}
	spec, err := req.Spec.WithPersona(personas)
	var tape *replay.Tape
	if err == nil {
		tape, err = replay.GenerateTape(spec)
	}
	if err != nil {
		var replayErr *replay.ReplayError
		if !errors.As(err, &replayErr) {
			replayErr = &replay.ReplayError{StepIndex: -1, Reason: "replay_generation_failed", Message: err.Error()}
		}
		return generateResponse{Error: replayErr}
	}
	return generateResponse{OK: true, Tape: replay.ToWireTape(tape)}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(generateResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "marshal_failed", Message: err.Error()},
		})
	}
	return string(b)
}
