package panel

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"werkstatt-bot/model"
	"werkstatt-bot/utils"
)

// Discord rejects embeds with more than 25 fields.
const maxEmbedFields = 25

const (
	absenceTitle       = "Abmeldungssystem"
	absenceDescription = "Klicke auf den Button um dich abzumelden.\n\n**Aktuelle Abmeldungen:**"
	noAbsences         = "*Keine aktiven Abmeldungen*"
)

// StatusLabel is the panel tag of an absence.
func StatusLabel(status model.AbsenceStatus) string {
	if status == model.AbsenceAway {
		return "🔴 Abwesend"
	}
	return "🟡 Geplant"
}

// AbsenceEmbed renders the absence panel for the given active records.
func AbsenceEmbed(records []model.AbsenceRecord, today model.Date, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       absenceTitle,
		Description: absenceDescription,
		Color:       utils.ColorPanel,
		Timestamp:   now.Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d aktive Abmeldung(en)", len(records))},
	}

	if len(records) == 0 {
		embed.Fields = []*discordgo.MessageEmbedField{{Name: "\u200b", Value: noAbsences}}
		return embed
	}

	shown := records
	if len(records) > maxEmbedFields {
		shown = records[:maxEmbedFields-1]
	}
	for _, r := range shown {
		name := fmt.Sprintf("%s | %s", StatusLabel(r.Status(today)), r.DisplayName)
		value := fmt.Sprintf("📅 **%s** bis **%s**\n📝 %s", r.StartDate.German(), r.EndDate.German(), r.Reason)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  utils.Truncate(name, 256),
			Value: utils.Truncate(value, 1024),
		})
	}
	if hidden := len(records) - len(shown); hidden > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "\u200b",
			Value: fmt.Sprintf("*... und %d weitere*", hidden),
		})
	}
	return embed
}

// AbsenceComponents are the two panel buttons.
func AbsenceComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Abmelden",
					Style:    discordgo.PrimaryButton,
					CustomID: model.AbsenceButtonID,
					Emoji:    &discordgo.ComponentEmoji{Name: "📋"},
				},
				discordgo.Button{
					Label:    "Abmeldung beenden",
					Style:    discordgo.SecondaryButton,
					CustomID: model.EndAbsenceButtonID,
					Emoji:    &discordgo.ComponentEmoji{Name: "✅"},
				},
			},
		},
	}
}

var documentationDescriptions = map[model.Topic]string{
	model.TopicTuningChip: "Klicke auf den Button, um einen Tuningchip zu dokumentieren.\nKunde, Kennzeichen und die durchgefuehrten Aenderungen werden abgefragt.",
	model.TopicStance:     "Klicke auf den Button, um ein Stance-Tuning zu dokumentieren.\nKunde und Kennzeichen werden abgefragt.",
	model.TopicXenon:      "Klicke auf den Button, um Xenon-Scheinwerfer zu dokumentieren.\nKunde, Kennzeichen und Xenon-Farbe werden abgefragt.",
}

// DocumentationEmbed renders the static panel of a documentation topic. It
// does not depend on stored data.
func DocumentationEmbed(topic model.Topic, window time.Duration, now time.Time) *discordgo.MessageEmbed {
	description := fmt.Sprintf("%s\n\nNach dem Absenden kannst du innerhalb von %d Sekunden ein Bild anhaengen.",
		documentationDescriptions[topic], int(window.Seconds()))
	return &discordgo.MessageEmbed{
		Title:       topic.Label() + " Dokumentation",
		Description: description,
		Color:       utils.ColorPanel,
		Timestamp:   now.Format(time.RFC3339),
	}
}

// DocumentationComponents is the single button opening the topic's modal.
func DocumentationComponents(topic model.Topic) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Dokumentation erstellen",
					Style:    discordgo.PrimaryButton,
					CustomID: model.DocumentationButtonID(topic),
					Emoji:    &discordgo.ComponentEmoji{Name: "📝"},
				},
			},
		},
	}
}
