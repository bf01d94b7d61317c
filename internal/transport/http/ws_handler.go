package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/quiz"
)

type WSHandler struct {
	service     *app.QuizService
	defaultBank string
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, defaultBank string, allowOrigin func(r *http.Request) bool) *WSHandler {
	if allowOrigin == nil {
		allowOrigin = func(r *http.Request) bool { return true }
	}
	return &WSHandler{
		service:     service,
		defaultBank: defaultBank,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigin,
		},
	}
}

// inboundMessage is an action: {"type":"submitAnswer","payload":"Paris"}.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newError(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoActiveQuestion):
		return "no_active_question"
	case errors.Is(err, domain.ErrQuestionAlreadyAnswered):
		return "already_answered"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, domain.ErrBankNotFound):
		return "bank_not_found"
	case errors.Is(err, domain.ErrInvalidBank):
		return "invalid_bank"
	case errors.Is(err, errInvalidPayload):
		return "invalid_payload"
	default:
		return "internal"
	}
}

var errInvalidPayload = errors.New("invalid action payload")

// decodeAction turns an inbound message into a quiz action. Payloads are JSON strings;
// an absent payload is the empty string.
func decodeAction(msg inboundMessage) (quiz.Action, error) {
	var payload string
	if len(msg.Payload) > 0 && string(msg.Payload) != "null" {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, errInvalidPayload
		}
	}
	return quiz.ParseAction(msg.Type, payload), nil
}

// ServeWS upgrades HTTP requests to websockets and binds each connection to its own quiz session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bankId")
	if bankID == "" {
		bankID = h.defaultBank
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.service.Start(r.Context(), bankID)
	if err != nil {
		_ = conn.WriteJSON(newError(err))
		return
	}
	defer h.service.End(r.Context(), session.ID)

	updates, cancel, err := h.service.Subscribe(r.Context(), session.ID)
	if err != nil {
		_ = conn.WriteJSON(newError(err))
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: state.Snapshot()}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		action, err := decodeAction(inbound)
		if err == nil {
			// successful dispatches reach the client through the subscription
			_, err = h.service.Dispatch(r.Context(), session.ID, action)
		}
		if err != nil {
			select {
			case send <- newError(err):
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
