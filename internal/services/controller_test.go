package services

import (
	"context"
	"errors"
	"testing"

	"vkinder-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	*discoveryFixture
	messenger  *fakeMessenger
	profiles   fakeProfiles
	controller *Controller
}

func newControllerFixture(candidates ...models.RawCandidate) *controllerFixture {
	d := newDiscoveryFixture(candidates...)
	f := &controllerFixture{
		discoveryFixture: d,
		messenger:        &fakeMessenger{},
		profiles:         fakeProfiles{},
	}
	resolver := NewProfileResolver(f.profiles, testGenders)
	favorites := NewFavoritesService(d.partners, "vk.com")
	f.controller = NewController(resolver, d.discovery, favorites, d.users, d.sessions, f.messenger, ControllerOptions{
		RepositoryURL: "https://github.com/example/vkinder",
		IsAdmin:       func(id int64) bool { return id == 7 },
	})
	return f
}

func (f *controllerFixture) send(t *testing.T, userID int64, text string) {
	t.Helper()
	require.NoError(t, f.controller.Handle(context.Background(), models.IncomingMessage{UserID: userID, Text: text}))
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, CommandGreet, ParseCommand("Начать"))
	assert.Equal(t, CommandStartSearch, ParseCommand(LabelStartSearch))
	assert.Equal(t, CommandRestart, ParseCommand(LabelRestart))
	assert.Equal(t, CommandRepeat, ParseCommand(LabelRepeat))
	assert.Equal(t, CommandNext, ParseCommand(LabelNext))
	assert.Equal(t, CommandLike, ParseCommand(LabelLike))
	assert.Equal(t, CommandDislike, ParseCommand(LabelDislike))
	assert.Equal(t, CommandFavorites, ParseCommand(LabelFavorites))
	assert.Equal(t, CommandStop, ParseCommand("Стоп"))
	assert.Equal(t, CommandUnknown, ParseCommand("привет"))
	assert.Equal(t, "like", CommandLike.String())
}

func TestGreetRegistersCompleteProfile(t *testing.T) {
	f := newControllerFixture()
	city := 3
	f.profiles[5] = &models.RawProfile{ID: 5, FirstName: "Марина", BirthDate: "1.1.1995", CityID: &city, Sex: models.SexFemale}

	f.send(t, 5, LabelGreet)

	texts := f.messenger.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, textGreeting, texts[0])
	assert.Equal(t, textStartPrompt, texts[1])
	assert.Equal(t, "https://github.com/example/vkinder", f.messenger.sent[0].Keyboard.Rows[0][0].Link)
	assert.Equal(t, LabelStartSearch, f.messenger.last().Keyboard.Rows[0][0].Label)

	stored, err := f.users.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CityID)
	assert.Equal(t, models.SexFemale, stored.Sex)
	assert.True(t, f.sessions.Has(5))
}

func TestGreetIncompleteProfileAsksToRepeat(t *testing.T) {
	f := newControllerFixture()
	f.profiles[5] = &models.RawProfile{ID: 5, FirstName: "Aleksei", BirthDate: "1.1.1995"}

	f.send(t, 5, LabelGreet)

	assert.Equal(t, textIncompleteProfile, f.messenger.last().Text)
	assert.Equal(t, LabelRepeat, f.messenger.last().Keyboard.Rows[0][0].Label)
	exists, _ := f.users.Exists(context.Background(), 5)
	assert.False(t, exists)
	assert.False(t, f.sessions.Has(5))

	// the user fills in the profile and presses repeat
	city := 3
	f.profiles[5] = &models.RawProfile{ID: 5, FirstName: "Aleksei", BirthDate: "1.1.1995", CityID: &city, Sex: models.SexMale}
	f.messenger.reset()
	f.send(t, 5, LabelRepeat)

	assert.Equal(t, []string{textStartPrompt}, f.messenger.texts())
	exists, _ = f.users.Exists(context.Background(), 5)
	assert.True(t, exists)
}

func TestGreetKnownUserSkipsResolution(t *testing.T) {
	f := newControllerFixture()
	f.sessions.Seed([]int64{testUser.ID})

	f.send(t, testUser.ID, LabelGreet)

	assert.Equal(t, []string{textGreeting, textStartPrompt}, f.messenger.texts())
}

func TestStartSearchPresentsCandidate(t *testing.T) {
	f := newControllerFixture(models.RawCandidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"})
	f.source.photos[10] = []models.Photo{{ID: 100, Likes: 1}, {ID: 101, Likes: 5}}

	f.send(t, testUser.ID, LabelStartSearch)

	texts := f.messenger.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, textSearchStarted, texts[0])
	assert.Equal(t, "Ольга Петрова\nhttps://vk.com/id10", texts[1])

	last := f.messenger.last()
	assert.Equal(t, "photo10_100,photo10_101", last.Attachment)
	require.NotNil(t, last.Keyboard)
	assert.True(t, last.Keyboard.Inline)
	assert.Equal(t, LabelLike, last.Keyboard.Rows[0][1].Label)
}

func TestStartSearchExhausted(t *testing.T) {
	f := newControllerFixture()

	f.send(t, testUser.ID, LabelStartSearch)

	assert.Equal(t, []string{textSearchStarted, textExhausted}, f.messenger.texts())
}

func TestRestartRebuildsStream(t *testing.T) {
	f := newControllerFixture(models.RawCandidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"})

	f.send(t, testUser.ID, LabelStartSearch)
	f.send(t, testUser.ID, LabelNext)
	assert.Equal(t, textExhausted, f.messenger.last().Text)

	f.send(t, testUser.ID, LabelRestart)
	assert.Equal(t, "Ольга Петрова\nhttps://vk.com/id10", f.messenger.last().Text)
	assert.Len(t, f.source.filters, 2)
}

func TestReviewScenario(t *testing.T) {
	f := newControllerFixture(
		models.RawCandidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"},
		models.RawCandidate{ID: 11, FirstName: "123", LastName: "Петрова"},
		models.RawCandidate{ID: 12, FirstName: "Мария", LastName: "Иванова"},
		models.RawCandidate{ID: 13, FirstName: "Ирина", LastName: "Смирнова"},
		models.RawCandidate{ID: 14, FirstName: "Анна", LastName: "Кузнецова"},
	)
	f.ignore(testUser.ID, 12)
	ctx := context.Background()

	f.send(t, testUser.ID, LabelStartSearch)
	assert.Equal(t, "Ольга Петрова\nhttps://vk.com/id10", f.messenger.last().Text)

	f.send(t, testUser.ID, LabelLike)
	assert.Equal(t, "Ирина Смирнова\nhttps://vk.com/id13", f.messenger.last().Text)

	f.send(t, testUser.ID, LabelDislike)
	assert.Equal(t, "Анна Кузнецова\nhttps://vk.com/id14", f.messenger.last().Text)

	ignored, err := f.partners.IsIgnored(ctx, testUser.ID, 13)
	require.NoError(t, err)
	assert.True(t, ignored)

	f.send(t, testUser.ID, LabelNext)
	assert.Equal(t, textExhausted, f.messenger.last().Text)

	f.messenger.reset()
	f.send(t, testUser.ID, LabelFavorites)
	assert.Equal(t, []string{textFavoritesHeader, "Ольга Петрова\nhttps://vk.com/id10"}, f.messenger.texts())
}

func TestLikeWithoutCandidate(t *testing.T) {
	f := newControllerFixture()
	f.sessions.Seed([]int64{testUser.ID})

	f.send(t, testUser.ID, LabelLike)

	assert.Equal(t, textNoCandidate, f.messenger.last().Text)
	assert.Empty(t, f.partners.rels)
}

func TestNextRestoresSessionAfterRestart(t *testing.T) {
	f := newControllerFixture(models.RawCandidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"})
	require.NoError(t, f.controller.Restore(context.Background()))
	assert.Equal(t, 1, f.sessions.Len())

	f.send(t, testUser.ID, LabelNext)

	assert.Equal(t, "Ольга Петрова\nhttps://vk.com/id10", f.messenger.last().Text)
}

func TestNextUnregisteredUserStartsRegistration(t *testing.T) {
	f := newControllerFixture()
	f.profiles[5] = &models.RawProfile{ID: 5, FirstName: "Aleksei"}

	f.send(t, 5, LabelNext)

	assert.Equal(t, textIncompleteProfile, f.messenger.last().Text)
}

func TestFavoritesEmpty(t *testing.T) {
	f := newControllerFixture()

	f.send(t, testUser.ID, LabelFavorites)

	assert.Equal(t, []string{textFavoritesEmpty}, f.messenger.texts())
}

func TestFavoritesListed(t *testing.T) {
	f := newControllerFixture()
	ctx := context.Background()
	f.partners.CreateWithRelationship(ctx,
		&models.Partner{ID: 10, FirstName: "Ольга", LastName: "Петрова", Link: "https://vk.com/id10"},
		&models.Relationship{UserID: testUser.ID, PartnerID: 10})
	f.ignore(testUser.ID, 11)
	f.partners.CreateWithRelationship(ctx,
		&models.Partner{ID: 12, FirstName: "Анна", LastName: "Смирнова", Link: "https://vk.com/id12"},
		&models.Relationship{UserID: testUser.ID, PartnerID: 12})

	f.send(t, testUser.ID, LabelFavorites)

	assert.Equal(t, []string{
		textFavoritesHeader,
		"Ольга Петрова\nhttps://vk.com/id10",
		"Анна Смирнова\nhttps://vk.com/id12",
	}, f.messenger.texts())
}

func TestRestoreSeedsSessions(t *testing.T) {
	f := newControllerFixture()

	require.NoError(t, f.controller.Restore(context.Background()))

	assert.True(t, f.sessions.Has(testUser.ID))
	assert.Equal(t, 1, f.sessions.Len())
	_, err := f.discovery.Current(testUser.ID)
	assert.ErrorIs(t, err, ErrNoCurrentCandidate)
}

func TestUnknownCommand(t *testing.T) {
	f := newControllerFixture()

	f.send(t, testUser.ID, "как дела?")

	assert.Equal(t, []string{textUnknownCommand}, f.messenger.texts())
	assert.Empty(t, f.source.filters)
}

func TestStopFromAdmin(t *testing.T) {
	f := newControllerFixture()

	err := f.controller.Handle(context.Background(), models.IncomingMessage{UserID: 7, Text: LabelStop})
	assert.ErrorIs(t, err, ErrStopRequested)
	assert.Equal(t, textStopped, f.messenger.last().Text)
}

func TestStopFromRegularUserIsUnknown(t *testing.T) {
	f := newControllerFixture()

	f.send(t, testUser.ID, LabelStop)

	assert.Equal(t, textUnknownCommand, f.messenger.last().Text)
}

func TestHandlerFailureIsReported(t *testing.T) {
	f := newControllerFixture(models.RawCandidate{ID: 10, FirstName: "Ольга", LastName: "Петрова"})
	f.source.photoErr = errors.New("photos unavailable")

	err := f.controller.Handle(context.Background(), models.IncomingMessage{UserID: testUser.ID, Text: LabelStartSearch})
	require.Error(t, err)
	assert.Equal(t, textFailure, f.messenger.last().Text)

	// the next command is processed normally
	f.send(t, testUser.ID, "?")
	assert.Equal(t, textUnknownCommand, f.messenger.last().Text)
}

func TestPhotoAttachment(t *testing.T) {
	assert.Equal(t, "photo10_1,photo10_2,photo10_3", PhotoAttachment(10, []int64{1, 2, 3}))
	assert.Equal(t, "", PhotoAttachment(10, nil))
}
