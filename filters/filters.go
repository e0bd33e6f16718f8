// Package filters provides ready-made event filters for handler and
// observer registration.
package filters

import (
	"context"
	"regexp"
	"strings"

	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/telerrors"
	"github.com/Nnenty/telers/types"
)

// TextEq creates a filter that checks if the update text equals the
// specified string.
//
// Example usage:
//
//	router.Message().Register(YourHandler, filters.TextEq("Hello"))
func TextEq(want string) event.Filter {
	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		return req.Update.Text() == want, nil
	}
}

// TextPrefix creates a filter that checks if the update text starts with the
// specified prefix.
func TextPrefix(prefix string) event.Filter {
	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		text := req.Update.Text()

		return text != "" && strings.HasPrefix(text, prefix), nil
	}
}

// TextRegex creates a filter that checks if the update text matches the
// specified regex.
//
// Example usage:
//
//	router.Message().Register(YourHandler, filters.TextRegex(regexp.MustCompile(`^Hello.*`)))
func TextRegex(re *regexp.Regexp) event.Filter {
	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		text := req.Update.Text()

		return text != "" && re.MatchString(text), nil
	}
}

// Command creates a filter that matches bot commands like "/start" and
// "/start@botname", comparing the command name without the slash.
//
// Example usage:
//
//	router.Message().Register(YourHandler, filters.Command("start"))
func Command(names ...string) event.Filter {
	wanted := make(map[string]struct{}, len(names))

	for _, name := range names {
		wanted[strings.TrimPrefix(name, "/")] = struct{}{}
	}

	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		text := req.Update.Text()
		if !strings.HasPrefix(text, "/") {
			return false, nil
		}

		command, _, _ := strings.Cut(text[1:], " ")
		command, _, _ = strings.Cut(command, "@")

		_, ok := wanted[command]

		return ok, nil
	}
}

// CallbackDataEq creates a filter that checks if the callback query data
// equals the specified string.
//
// Example usage:
//
//	router.CallbackQuery().Register(YourHandler, filters.CallbackDataEq("some_data"))
func CallbackDataEq(data string) event.Filter {
	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		query := req.Update.CallbackQuery

		return query != nil && query.Data == data, nil
	}
}

// CallbackDataPrefix creates a filter that checks if the callback query data
// starts with the specified prefix.
func CallbackDataPrefix(prefix string) event.Filter {
	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		query := req.Update.CallbackQuery

		return query != nil && strings.HasPrefix(query.Data, prefix), nil
	}
}

// StateIs creates a filter that checks if the finite-state-machine state
// prefetched into the request context matches any of the provided states.
// An empty want list matches the absence of a state.
//
// Example usage:
//
//	router.Message().Register(YourHandler, filters.StateIs("awaiting_name"))
func StateIs(want ...string) event.Filter {
	wanted := make(map[string]struct{}, len(want))

	for _, s := range want {
		wanted[s] = struct{}{}
	}

	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		state, ok := req.Context.RawState()
		if !ok {
			return len(wanted) == 0, nil
		}

		_, ok = wanted[state]

		return ok, nil
	}
}

// HasUser creates a filter that passes when the update carries an
// identifiable sender.
func HasUser() event.Filter {
	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		return req.Update.User() != nil, nil
	}
}

// UpdateTypeIs creates a filter that passes when the update is of one of the
// specified kinds.
func UpdateTypeIs(kinds ...types.UpdateType) event.Filter {
	wanted := make(map[types.UpdateType]struct{}, len(kinds))

	for _, kind := range kinds {
		wanted[kind] = struct{}{}
	}

	return func(_ context.Context, req event.Request) (bool, telerrors.Error) {
		_, ok := wanted[req.Update.Type()]

		return ok, nil
	}
}

// Any creates a filter that passes if any of the provided filters pass.
//
// Example usage:
//
//	router.Message().Register(YourHandler, filters.Any(filter1, filter2))
func Any(inner ...event.Filter) event.Filter {
	return func(ctx context.Context, req event.Request) (bool, telerrors.Error) {
		for _, f := range inner {
			ok, err := f(ctx, req)
			if err != nil {
				return false, err.Wrap("or-filter check failed")
			}

			if ok {
				return true, nil
			}
		}

		return false, nil
	}
}

// All creates a filter that passes only if all of the provided filters pass.
//
// Example usage:
//
//	router.Message().Register(YourHandler, filters.All(filter1, filter2))
func All(inner ...event.Filter) event.Filter {
	return func(ctx context.Context, req event.Request) (bool, telerrors.Error) {
		for _, f := range inner {
			ok, err := f(ctx, req)
			if err != nil {
				return false, err.Wrap("and-filter check failed")
			}

			if !ok {
				return false, nil
			}
		}

		return true, nil
	}
}

// Not creates a filter inverting the provided filter.
func Not(inner event.Filter) event.Filter {
	return func(ctx context.Context, req event.Request) (bool, telerrors.Error) {
		ok, err := inner(ctx, req)
		if err != nil {
			return false, err.Wrap("not-filter check failed")
		}

		return !ok, nil
	}
}
