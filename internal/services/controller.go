package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vkinder-bot/internal/models"

	"github.com/rs/zerolog/log"
)

type commandHandler func(ctx context.Context, userID int64) error

// ControllerOptions configures a Controller
type ControllerOptions struct {
	RepositoryURL string
	IsAdmin       func(userID int64) bool
}

// Controller dispatches chat commands to the review flow
type Controller struct {
	profiles  *ProfileResolver
	discovery *DiscoveryService
	favorites *FavoritesService
	users     UserStore
	sessions  *SessionStore
	messenger Messenger
	opts      ControllerOptions
	handlers  map[Command]commandHandler
}

// NewController creates a new command controller
func NewController(
	profiles *ProfileResolver,
	discovery *DiscoveryService,
	favorites *FavoritesService,
	users UserStore,
	sessions *SessionStore,
	messenger Messenger,
	opts ControllerOptions,
) *Controller {
	if opts.IsAdmin == nil {
		opts.IsAdmin = func(int64) bool { return false }
	}

	c := &Controller{
		profiles:  profiles,
		discovery: discovery,
		favorites: favorites,
		users:     users,
		sessions:  sessions,
		messenger: messenger,
		opts:      opts,
	}

	c.handlers = map[Command]commandHandler{
		CommandGreet:       c.handleGreet,
		CommandRepeat:      c.handleRegister,
		CommandStartSearch: c.handleStartSearch,
		CommandRestart:     c.handleStartSearch,
		CommandNext:        c.handleNext,
		CommandLike:        c.handleLike,
		CommandDislike:     c.handleDislike,
		CommandFavorites:   c.handleFavorites,
	}

	return c
}

// Restore seeds an empty session for every registered user
func (c *Controller) Restore(ctx context.Context) error {
	ids, err := c.users.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}
	c.sessions.Seed(ids)
	log.Info().Int("users", len(ids)).Msg("Sessions restored")
	return nil
}

// Handle processes one inbound message. Messages of the same user are
// processed one at a time. A failed command is reported to the user and
// returned; it does not affect other commands.
func (c *Controller) Handle(ctx context.Context, msg models.IncomingMessage) error {
	unlock := c.sessions.Lock(msg.UserID)
	defer unlock()

	cmd := ParseCommand(msg.Text)
	log.Info().Int64("user_id", msg.UserID).Str("command", cmd.String()).Msg("Command received")

	if cmd == CommandStop && c.opts.IsAdmin(msg.UserID) {
		commandsHandled.WithLabelValues(cmd.String(), "ok").Inc()
		c.send(ctx, msg.UserID, textStopped, nil, "")
		return ErrStopRequested
	}

	handler, ok := c.handlers[cmd]
	if !ok {
		handler = c.handleUnknown
	}

	if err := handler(ctx, msg.UserID); err != nil {
		commandsHandled.WithLabelValues(cmd.String(), "error").Inc()
		log.Error().
			Err(err).
			Int64("user_id", msg.UserID).
			Str("command", cmd.String()).
			Msg("Failed to handle command")
		c.send(ctx, msg.UserID, textFailure, nil, "")
		return fmt.Errorf("%s: %w", cmd, err)
	}

	commandsHandled.WithLabelValues(cmd.String(), "ok").Inc()
	return nil
}

func (c *Controller) handleGreet(ctx context.Context, userID int64) error {
	if err := c.deliver(ctx, userID, textGreeting, repositoryKeyboard(c.opts.RepositoryURL), ""); err != nil {
		return err
	}
	return c.handleRegister(ctx, userID)
}

// handleRegister resolves and stores the profile of a new user, then offers to start searching
func (c *Controller) handleRegister(ctx context.Context, userID int64) error {
	known, err := c.isKnown(ctx, userID)
	if err != nil {
		return err
	}

	if !known {
		profile, err := c.profiles.Resolve(ctx, userID)
		if errors.Is(err, ErrIncompleteProfile) {
			log.Info().Int64("user_id", userID).Msg("Profile is incomplete")
			return c.deliver(ctx, userID, textIncompleteProfile, repeatKeyboard(), "")
		}
		if err != nil {
			return err
		}

		if err := c.users.Create(ctx, profile); err != nil {
			return err
		}
		c.sessions.Get(userID)

		log.Info().
			Int64("user_id", userID).
			Int("city_id", profile.CityID).
			Int("age", profile.Age).
			Str("sex", profile.Sex.String()).
			Msg("User registered")
	}

	return c.deliver(ctx, userID, textStartPrompt, startSearchKeyboard(), "")
}

func (c *Controller) handleStartSearch(ctx context.Context, userID int64) error {
	known, err := c.isKnown(ctx, userID)
	if err != nil {
		return err
	}
	if !known {
		return c.handleRegister(ctx, userID)
	}

	profile, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	c.discovery.StartSearch(ctx, profile)

	if err := c.deliver(ctx, userID, textSearchStarted, mainNavigationKeyboard(), ""); err != nil {
		return err
	}
	return c.presentNext(ctx, userID)
}

func (c *Controller) handleNext(ctx context.Context, userID int64) error {
	known, err := c.isKnown(ctx, userID)
	if err != nil {
		return err
	}
	if !known {
		return c.handleRegister(ctx, userID)
	}
	return c.presentNext(ctx, userID)
}

func (c *Controller) handleLike(ctx context.Context, userID int64) error {
	return c.rate(ctx, userID, false)
}

func (c *Controller) handleDislike(ctx context.Context, userID int64) error {
	return c.rate(ctx, userID, true)
}

func (c *Controller) rate(ctx context.Context, userID int64, ignore bool) error {
	candidate, err := c.discovery.Current(userID)
	if errors.Is(err, ErrNoCurrentCandidate) {
		return c.deliver(ctx, userID, textNoCandidate, startSearchKeyboard(), "")
	}
	if err != nil {
		return err
	}

	if err := c.favorites.SaveVerdict(ctx, userID, candidate, ignore); err != nil {
		return err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("candidate_id", candidate.ID).
		Bool("ignore", ignore).
		Msg("Verdict saved")

	return c.presentNext(ctx, userID)
}

func (c *Controller) handleFavorites(ctx context.Context, userID int64) error {
	partners, err := c.favorites.List(ctx, userID)
	if err != nil {
		return err
	}

	keyboard := mainNavigationKeyboard()
	if len(partners) == 0 {
		return c.deliver(ctx, userID, textFavoritesEmpty, keyboard, "")
	}

	if err := c.deliver(ctx, userID, textFavoritesHeader, keyboard, ""); err != nil {
		return err
	}
	for _, p := range partners {
		if err := c.deliver(ctx, userID, FormatFavorite(p), keyboard, ""); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) handleUnknown(ctx context.Context, userID int64) error {
	return c.deliver(ctx, userID, textUnknownCommand, nil, "")
}

// presentNext advances the search and shows the candidate with its photos
func (c *Controller) presentNext(ctx context.Context, userID int64) error {
	candidate, err := c.discovery.Advance(ctx, userID)
	if errors.Is(err, ErrStreamExhausted) {
		log.Info().Int64("user_id", userID).Msg("Search exhausted")
		return c.deliver(ctx, userID, textExhausted, mainNavigationKeyboard(), "")
	}
	if err != nil {
		return err
	}

	text := fmt.Sprintf("%s %s\n%s", candidate.FirstName, candidate.LastName, c.favorites.ProfileLink(candidate.ID))
	return c.deliver(ctx, userID, text, reactionsKeyboard(), PhotoAttachment(candidate.ID, candidate.PhotoIDs))
}

func (c *Controller) isKnown(ctx context.Context, userID int64) (bool, error) {
	if c.sessions.Has(userID) {
		return true, nil
	}
	exists, err := c.users.Exists(ctx, userID)
	if err != nil {
		return false, err
	}
	if exists {
		c.sessions.Get(userID)
	}
	return exists, nil
}

func (c *Controller) deliver(ctx context.Context, userID int64, text string, keyboard *models.Keyboard, attachment string) error {
	err := c.messenger.Send(ctx, &models.OutgoingMessage{
		UserID:     userID,
		Text:       text,
		Keyboard:   keyboard,
		Attachment: attachment,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// send is deliver for messages whose failure is only logged
func (c *Controller) send(ctx context.Context, userID int64, text string, keyboard *models.Keyboard, attachment string) {
	if err := c.deliver(ctx, userID, text, keyboard, attachment); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to send message")
	}
}

// FormatFavorite renders a liked partner as a chat line
func FormatFavorite(p *models.Partner) string {
	return fmt.Sprintf("%s %s\n%s", p.FirstName, p.LastName, p.Link)
}

// PhotoAttachment builds a message attachment from photo ids of one owner
func PhotoAttachment(ownerID int64, photoIDs []int64) string {
	parts := make([]string, 0, len(photoIDs))
	owner := strconv.FormatInt(ownerID, 10)
	for _, id := range photoIDs {
		parts = append(parts, "photo"+owner+"_"+strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
