package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/http/response"
)

// APIEnvelope wraps every successful response.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// APIErrorEnvelope wraps every failed response. Errors carries per-field
// validation messages when there are any.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Success bool   `json:"success"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// messenger is implemented by response bodies that set their own envelope message.
type messenger interface {
	EnvelopeMessage() string
}

// MessageBody is a response body made only of an envelope message.
type MessageBody struct {
	message string
}

// Message returns a body that renders as {"success":true,"message":msg,"data":null}.
func Message(msg string) MessageBody {
	return MessageBody{message: msg}
}

// EnvelopeMessage implements messenger.
func (m MessageBody) EnvelopeMessage() string { return m.message }

// messageData pairs a payload with a custom envelope message.
type messageData[T any] struct {
	message string
	data    T
}

// EnvelopeMessage implements messenger.
func (m messageData[T]) EnvelopeMessage() string { return m.message }

func (m messageData[T]) payload() any { return m.data }

// withMessage wraps data so it is sent under a custom envelope message.
func withMessage[T any](msg string, data T) messageData[T] {
	return messageData[T]{message: msg, data: data}
}

type payloader interface {
	payload() any
}

// EnvelopeTransformer wraps response bodies in the API envelope.
// Errors become {success:false, message, errors?}; everything else becomes
// {success:true, message, data}.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case APIEnvelope, APIErrorEnvelope:
		return v, nil
	case *APIError:
		return errorEnvelope(status, body.Message, body.Details), nil
	case *domainerrors.Error:
		return errorEnvelope(status, body.Message, body.Details), nil
	case error:
		var apiErr *APIError
		if errors.As(body, &apiErr) {
			return errorEnvelope(status, apiErr.Message, apiErr.Details), nil
		}
		return errorEnvelope(status, body.Error(), nil), nil
	case MessageBody:
		return APIEnvelope{Success: true, Message: body.message}, nil
	}

	envelope := APIEnvelope{Success: true, Message: response.MsgSuccess, Data: v}
	if m, ok := v.(messenger); ok {
		envelope.Message = m.EnvelopeMessage()
	}
	if p, ok := v.(payloader); ok {
		envelope.Data = p.payload()
	}
	return envelope, nil
}

func errorEnvelope(status, message string, details any) APIErrorEnvelope {
	if status == "500" {
		return APIErrorEnvelope{Message: response.MsgInternalError}
	}
	return APIErrorEnvelope{Message: message, Errors: details}
}
