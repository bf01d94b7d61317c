// Package telegram binds quiz sessions to Telegram chats: one session per chat.
package telegram

import (
	"context"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/quiz"
	"trivia-quiz-service/internal/view"
)

const (
	helpText    = "Send /start to begin a quiz."
	restartText = "Send /start to play again."
	textOnly    = "Please answer with a text message."
)

type Bot struct {
	api     *tgbotapi.BotAPI
	service *app.QuizService
	bankID  string

	mu    sync.Mutex
	chats map[int64]string
}

func NewBot(api *tgbotapi.BotAPI, service *app.QuizService, bankID string) *Bot {
	return &Bot{
		api:     api,
		service: service,
		bankID:  bankID,
		chats:   make(map[int64]string),
	}
}

// Run polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("authorised on account: %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.endAll(context.Background())
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			reply, err := b.Reply(ctx, update.Message.Chat.ID, update.Message.Text)
			if err != nil {
				log.Printf("chat %d: %v", update.Message.Chat.ID, err)
				reply = "Something went wrong. " + restartText
			}
			if _, err := b.api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, reply)); err != nil {
				log.Printf("send to chat %d: %v", update.Message.Chat.ID, err)
			}
		}
	}
}

// Reply handles one chat message and returns the text to send back.
func (b *Bot) Reply(ctx context.Context, chatID int64, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "/start" {
		return b.restart(ctx, chatID)
	}

	sessionID, ok := b.session(chatID)
	if !ok {
		return helpText, nil
	}
	state, err := b.service.State(ctx, sessionID)
	if err != nil {
		return "", err
	}

	switch state.Stage() {
	case quiz.StageStart:
		if text == "" {
			return view.NamePrompt, nil
		}
		state, err = b.dispatch(ctx, sessionID, quiz.SetUserName{Name: text}, quiz.NextQuestion{})
	case quiz.StageAsking:
		// stickers, photos and voice notes arrive without text
		if text == "" {
			return textOnly + "\n\n" + view.Question(state), nil
		}
		state, err = b.dispatch(ctx, sessionID, quiz.SubmitAnswer{Answer: text}, quiz.NextQuestion{})
	case quiz.StageCompleted:
		return restartText, nil
	}
	if err != nil {
		return "", err
	}

	screen := view.Screen(state)
	if state.Stage() == quiz.StageCompleted {
		screen += "\n\n" + restartText
	}
	return screen, nil
}

func (b *Bot) restart(ctx context.Context, chatID int64) (string, error) {
	if old, ok := b.session(chatID); ok {
		b.service.End(ctx, old)
	}
	session, err := b.service.Start(ctx, b.bankID)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	b.chats[chatID] = session.ID
	b.mu.Unlock()
	return view.Screen(session.State()), nil
}

// dispatch applies actions in order, the way the web view pairs them.
func (b *Bot) dispatch(ctx context.Context, sessionID string, actions ...quiz.Action) (quiz.State, error) {
	var state quiz.State
	for _, action := range actions {
		var err error
		if state, err = b.service.Dispatch(ctx, sessionID, action); err != nil {
			return state, err
		}
	}
	return state, nil
}

func (b *Bot) session(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.chats[chatID]
	return id, ok
}

func (b *Bot) endAll(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for chatID, sessionID := range b.chats {
		b.service.End(ctx, sessionID)
		delete(b.chats, chatID)
	}
}
