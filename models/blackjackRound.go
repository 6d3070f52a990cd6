package models

import "gorm.io/gorm"

// BlackjackRound is the record of a finished round. Unsettled rounds are those every player left.
type BlackjackRound struct {
	gorm.Model
	ID              uint   `gorm:"primaryKey"`
	RoundID         string `gorm:"uniqueIndex; size:36"`
	GuildID         string `gorm:"index; size:64"`
	ChannelID       string `gorm:"size:64"`
	Players         int
	Hands           int
	Settled         bool
	Result          string `gorm:"size:16"`
	DealerTotal     int
	DealerBlackjack bool
}
