package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mojapay.io/mobile-money/pkg/i18n"
	"mojapay.io/mobile-money/pkg/recipient"
	"mojapay.io/mobile-money/pkg/staging"
)

// scriptedEditor returns an editor that replays actions in order and fails
// the test if it asks for more.
func scriptedEditor(t *testing.T, store *staging.Store, actions ...int) (*recipientEditor, *int) {
	e := newRecipientEditor(i18n.New(i18n.English), store)
	next := 0
	e.chooseAction = func(string, []string) (int, error) {
		require.Less(t, next, len(actions), "editor asked for more actions than scripted")
		a := actions[next]
		next++
		return a, nil
	}
	e.chooseRecipient = func(string, []string) (int, error) { return 0, nil }
	e.promptRecipient = func(def recipient.Recipient) (recipient.Recipient, error) {
		r := recipient.New("22990123456", "Jean Dupont", decimal.NewFromInt(50000))
		r.ID = def.ID
		return r, nil
	}
	return e, &next
}

func TestRecipientEditor_EmptyStore(t *testing.T) {
	store := staging.New()
	actions := []int{editChange, editRemove, editAdd, editContinue}
	e, next := scriptedEditor(t, store, actions...)

	require.NoError(t, e.run())
	assert.Equal(t, len(actions), *next)
	assert.Equal(t, 1, store.Len())
}

func TestRecipientEditor_ChangeAndRemove(t *testing.T) {
	store := staging.New()
	_, err := store.Add(recipient.New("22501020304", "Alice", decimal.NewFromInt(1000)))
	require.NoError(t, err)
	_, err = store.Add(recipient.New("22505060708", "Bob", decimal.NewFromInt(2000)))
	require.NoError(t, err)

	e, _ := scriptedEditor(t, store, editChange, editRemove, editContinue)
	require.NoError(t, e.run())

	// the first recipient is edited, then removed
	rs := store.Snapshot()
	require.Len(t, rs, 1)
	assert.Equal(t, "Bob", rs[0].FullName)
}
