package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils"
)

// UserStats counts the records of one user.
type UserStats interface {
	CountActiveAbsences(ctx context.Context, userID string) (int, error)
	CountSanctions(ctx context.Context, userID string) (total, active int, err error)
}

// UserInfoHandler serves /userinfo for the given member or the invoker.
func UserInfoHandler(s model.Session, i *discordgo.InteractionCreate, store UserStats, now time.Time, logger *zap.Logger) {
	user, member := utils.ResolvedUser(i, utils.OptionMap(i)["benutzer"])
	if user == nil {
		user, member = utils.InteractionUser(i), i.Member
	}

	ctx := context.Background()
	absences, err := store.CountActiveAbsences(ctx, user.ID)
	if err != nil {
		logger.Error("error counting absences", zap.String("user_id", user.ID), zap.Error(err))
		utils.SendErrorResponse(s, i, "Fehler beim Abrufen der Benutzerinfo.")
		return
	}
	total, active, err := store.CountSanctions(ctx, user.ID)
	if err != nil {
		logger.Error("error counting sanctions", zap.String("user_id", user.ID), zap.Error(err))
		utils.SendErrorResponse(s, i, "Fehler beim Abrufen der Benutzerinfo.")
		return
	}

	created := "-"
	if ts, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		created = ts.UTC().Format("02.01.2006")
	}
	embed := &discordgo.MessageEmbed{
		Title: "Benutzerinfo: " + utils.DisplayName(member, user),
		Color: utils.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User ID", Value: user.ID, Inline: true},
			{Name: "Account erstellt", Value: created, Inline: true},
			{Name: "\u200b", Value: "\u200b", Inline: true},
			{Name: "Aktive Abmeldungen", Value: fmt.Sprintf("%d", absences), Inline: true},
			{Name: "Aktive Sanktionen", Value: fmt.Sprintf("%d", active), Inline: true},
			{Name: "Sanktionen gesamt", Value: fmt.Sprintf("%d", total), Inline: true},
		},
		Timestamp: now.Format(time.RFC3339),
	}
	if avatar := user.AvatarURL(""); avatar != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatar}
	}
	if err := utils.SendEmbed(s, i, embed, true); err != nil {
		logger.Warn("error sending user info", zap.Error(err))
	}
}
