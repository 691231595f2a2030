package app

import (
	"context"
	"errors"
	"strings"

	"kalimati-price-tracker/internal/storage"
)

// Subscribe registers or replaces a subscriber's commodity watch-list.
func (a *App) Subscribe(ctx context.Context, email string, commodities []string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("a valid --email is required")
	}

	watched := make([]string, 0, len(commodities))
	for _, name := range commodities {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			watched = append(watched, trimmed)
		}
	}
	if len(watched) == 0 {
		return errors.New("at least one commodity must be provided")
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.UpsertSubscriber(ctx, storage.Subscriber{Email: email, Commodities: watched}); err != nil {
		return err
	}

	a.Logger.Info().Str("email", email).Strs("commodities", watched).Msg("subscriber saved")
	return nil
}
