package confirm

import (
	"context"
	"os/exec"
	"strconv"
	"sync"

	"github.com/zeebo/errs"

	"mojapay.io/mobile-money/pkg/i18n"
)

const (
	// speechRate is 0.9 times the espeak default of 175 words per minute.
	speechRate = 157
)

var _ Speaker = &CommandSpeaker{}

// CommandSpeaker speaks through an espeak compatible command.
type CommandSpeaker struct {
	command string

	// test hook
	lookPath func(string) (string, error)

	mu      sync.Mutex
	cancels map[uint64]context.CancelFunc
	next    uint64
}

func NewCommandSpeaker(command string) *CommandSpeaker {
	return &CommandSpeaker{
		command:  command,
		lookPath: exec.LookPath,
		cancels:  make(map[uint64]context.CancelFunc),
	}
}

// Supported returns true if the command is installed.
func (s *CommandSpeaker) Supported() bool {
	if s.command == "" {
		return false
	}
	_, err := s.lookPath(s.command)
	return err == nil
}

func (s *CommandSpeaker) Speak(ctx context.Context, text string, lang i18n.Language) error {
	ctx, cancel := context.WithCancel(ctx)
	id := s.track(cancel)
	defer s.untrack(id)

	voice := "fr"
	if lang == i18n.English {
		voice = "en-us"
	}
	cmd := exec.CommandContext(ctx, s.command, "-v", voice, "-s", strconv.Itoa(speechRate), text)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.Wrap(err)
	}
	return nil
}

// Cancel kills every utterance in progress.
func (s *CommandSpeaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cancel := range s.cancels {
		cancel()
		delete(s.cancels, id)
	}
}

func (s *CommandSpeaker) track(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.cancels[s.next] = cancel
	return s.next
}

func (s *CommandSpeaker) untrack(id uint64) {
	s.mu.Lock()
	cancel, ok := s.cancels[id]
	delete(s.cancels, id)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}
