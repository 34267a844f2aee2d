package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bitbucket.org/sotavant/rolldice-skill/internal/locale"
	"bitbucket.org/sotavant/rolldice-skill/internal/models"
)

const (
	IntentCancel   = "AMAZON.CancelIntent"
	IntentHelp     = "AMAZON.HelpIntent"
	IntentStop     = "AMAZON.StopIntent"
	IntentRollDice = "rolldice"

	SlotFaces = "faces"
)

var ErrInvalidSlot = errors.New("dispatch: invalid slot value")

// handleSystemIntent answers the platform's standard intents. ok is false for
// any other intent name.
func handleSystemIntent(name string, loc locale.Locale) (reply Reply, ok bool, err error) {
	var key locale.MessageKey
	switch name {
	case IntentCancel:
		key = locale.Cancel
	case IntentHelp:
		key = locale.Help
	case IntentStop:
		key = locale.Stop
	default:
		return Reply{}, false, nil
	}

	msg, err := loc.Get(key)
	if err != nil {
		return Reply{}, true, err
	}
	if key == locale.Help {
		return Ask(msg, msg), true, nil
	}
	return Tell(msg), true, nil
}

// rollDice draws a face of a die with the requested number of faces.
func rollDice(intent models.Intent, loc locale.Locale, draw func(n int) int) (Reply, error) {
	faces, err := parseFaces(intent)
	if err != nil {
		return Reply{}, err
	}

	// faces are numbered 1..faces inclusive
	number := draw(faces) + 1

	msg, err := loc.Get(locale.Response, strconv.Itoa(faces), strconv.Itoa(number))
	if err != nil {
		return Reply{}, err
	}
	return Tell(msg), nil
}

func parseFaces(intent models.Intent) (int, error) {
	raw, ok := intent.SlotValue(SlotFaces)
	if !ok {
		return 0, fmt.Errorf("%w: %s is missing", ErrInvalidSlot, SlotFaces)
	}
	faces, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalidSlot, SlotFaces, raw, err)
	}
	if faces < 1 {
		return 0, fmt.Errorf("%w: %s=%d is not positive", ErrInvalidSlot, SlotFaces, faces)
	}
	return faces, nil
}
