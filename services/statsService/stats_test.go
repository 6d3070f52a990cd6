package statsService

import (
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"tableBot/models"
	"tableBot/services/blackjackService"
	"tableBot/services/common"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	return gormDB, mock
}

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	names, err := common.NewNameCache(16)
	require.NoError(t, err)
	return NewStore(db, names), mock
}

func userRows(id int, discordID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "discord_id", "guild_id", "hands_won", "hands_lost"}).
		AddRow(id, discordID, "guild1", 3, 1)
}

func TestTallyOutcome(t *testing.T) {
	outcome := &blackjackService.Outcome{
		Players: []string{"alice", "bob", "carol"},
		Kicked:  []string{"carol"},
		Hands: []blackjackService.HandOutcome{
			{UserID: "alice", Index: 0, Result: blackjackService.Win, Natural: true},
			{UserID: "alice", Index: 1, Result: blackjackService.Lose},
			{UserID: "bob", Index: 0, Result: blackjackService.Tie},
			{UserID: "stranger", Index: 0, Result: blackjackService.Win},
		},
	}

	tallies := tallyOutcome(outcome)
	require.Len(t, tallies, 3)
	assert.Equal(t, tally{won: 1, lost: 1, blackjacks: 1}, *tallies["alice"])
	assert.Equal(t, tally{tied: 1}, *tallies["bob"])
	assert.Equal(t, tally{kicked: true}, *tallies["carol"])
}

func TestRecordOutcome(t *testing.T) {
	store, mock := newTestStore(t)

	outcome := &blackjackService.Outcome{
		RoundID:     "round-1",
		Settled:     true,
		Result:      blackjackService.Win,
		DealerTotal: 17,
		Players:     []string{"alice", "bob"},
		Kicked:      []string{"bob"},
		Hands: []blackjackService.HandOutcome{
			{UserID: "alice", Index: 0, Status: blackjackService.StatusStand, Total: 19, Result: blackjackService.Win},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows(1, "alice"))
	mock.ExpectExec("UPDATE `users` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows(2, "bob"))
	mock.ExpectExec("UPDATE `users` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `blackjack_rounds`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.RecordOutcome("guild1", "chan1", outcome)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordOutcomeRollsBack(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnRows(userRows(1, "alice"))
	mock.ExpectExec("UPDATE `users` SET").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := store.RecordOutcome("guild1", "chan1", &blackjackService.Outcome{
		RoundID: "round-2",
		Players: []string{"alice"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error updating stats for user alice")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadUser(t *testing.T) {
	t.Run("Known player", func(t *testing.T) {
		store, mock := newTestStore(t)
		mock.ExpectQuery("SELECT \\* FROM `users` WHERE").WillReturnRows(userRows(1, "alice"))

		user, err := store.LoadUser("guild1", "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.DiscordID)
		assert.Equal(t, 3, user.HandsWon)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Never played", func(t *testing.T) {
		store, mock := newTestStore(t)
		mock.ExpectQuery("SELECT \\* FROM `users` WHERE").
			WillReturnRows(sqlmock.NewRows([]string{"id", "discord_id", "guild_id"}))

		user, err := store.LoadUser("guild1", "nobody")
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Query fails", func(t *testing.T) {
		store, mock := newTestStore(t)
		mock.ExpectQuery("SELECT \\* FROM `users` WHERE").WillReturnError(assert.AnError)

		user, err := store.LoadUser("guild1", "alice")
		assert.Error(t, err)
		assert.Nil(t, user)
	})
}

func TestTopUsers(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE guild_id = \\? .*ORDER BY hands_won desc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "discord_id", "guild_id", "hands_won"}).
			AddRow(1, "alice", "guild1", 9).
			AddRow(2, "bob", "guild1", 4))

	users, err := store.TopUsers("guild1", 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].DiscordID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPruneRounds(t *testing.T) {
	db, mock := newMockDB(t)
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `blackjack_rounds` WHERE created_at < \\?").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	deleted, err := PruneRounds(db, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsEmbeds(t *testing.T) {
	user := models.User{RoundsPlayed: 5, HandsWon: 3, HandsLost: 1, HandsTied: 0, Blackjacks: 1, Kicks: 2}
	embed := statsEmbed(user, "alice")
	assert.Equal(t, "🃏 alice at the Blackjack table", embed.Title)
	assert.Equal(t, "3 / 0 / 1", embed.Fields[1].Value)
	assert.Equal(t, "75.0%", embed.Fields[2].Value)
	assert.Equal(t, "2", embed.Fields[4].Value)

	assert.Equal(t, 0.0, winRate(models.User{}))

	board := leaderboardEmbed([]models.User{user}, []string{"alice"})
	assert.True(t, strings.HasPrefix(board.Description, "**1. alice** - 3 hands won (75.0%)"))
	assert.Equal(t, "Nobody has finished a round yet.", leaderboardEmbed(nil, nil).Description)
}

func TestDisplayNamePrefersStoredName(t *testing.T) {
	store, _ := newTestStore(t)
	name := "Alice"
	assert.Equal(t, "Alice", store.displayName(nil, "guild1", models.User{DiscordID: "alice", Username: &name}))

	store.names.Remember("guild1", &discordgo.User{ID: "bob", Username: "bobby"})
	assert.Equal(t, "bobby", store.displayName(nil, "guild1", models.User{DiscordID: "bob"}))
}
