package tuningdoc

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"werkstatt-bot/flow"
	"werkstatt-bot/model"
	"werkstatt-bot/utils"
)

// Embed renders the permanent documentation post of doc.
func Embed(doc *model.TuningDocumentation) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Kunde", Value: doc.CustomerName, Inline: true},
		{Name: "Kennzeichen", Value: doc.Plate, Inline: true},
	}
	if doc.Topic == model.TopicXenon {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Xenon-Farbe", Value: doc.Color, Inline: true})
	}
	fields = append(fields, &discordgo.MessageEmbedField{
		Name:   "Bearbeitet von",
		Value:  fmt.Sprintf("<@%s>", doc.AuthorID),
		Inline: true,
	})
	if doc.Topic == model.TopicTuningChip {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Durchgefuehrte Aenderungen",
			Value: utils.Truncate(doc.Description, 1024),
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:  doc.Topic.Label() + " Dokumentation",
		Color:  utils.ColorSuccess,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Dokumentations-ID: #%d", doc.ID),
		},
	}
	if doc.HasImage() {
		embed.Image = &discordgo.MessageEmbedImage{URL: *doc.ImageURL}
	}
	if !doc.CreatedAt.IsZero() {
		embed.Timestamp = doc.CreatedAt.Format(time.RFC3339)
	}
	return embed
}

// EigentuningEmbed renders a self-tuning record. withLogo points the
// thumbnail at the attached company logo.
func EigentuningEmbed(rec *model.EigentuningRecord, withLogo bool) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Eigentuning Dokumentation",
		Color: utils.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Eigentuning von", Value: rec.AuthorName, Inline: true},
			{Name: "Rechnungsausstellung von", Value: rec.InvoiceIssuer, Inline: true},
			{Name: "\u200b", Value: "\u200b", Inline: true},
			{Name: "Einkaufspreis", Value: utils.FormatDollars(rec.PurchasePrice), Inline: true},
			{Name: "Hoehe der ausgestellten Rechnung", Value: utils.FormatDollars(rec.InvoiceAmount), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Dokumentations-ID: #%d", rec.ID),
		},
	}
	if withLogo {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: utils.LogoThumbnailURL}
	}
	if !rec.CreatedAt.IsZero() {
		embed.Timestamp = rec.CreatedAt.Format(time.RFC3339)
	}
	return embed
}

// ChoiceComponents are the two buttons of the image choice window.
func ChoiceComponents(token string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Bild anhaengen",
					Style:    discordgo.PrimaryButton,
					CustomID: flow.ChoiceButtonID(token, true),
					Emoji:    &discordgo.ComponentEmoji{Name: "📷"},
				},
				discordgo.Button{
					Label:    "Ohne Bild fortfahren",
					Style:    discordgo.SecondaryButton,
					CustomID: flow.ChoiceButtonID(token, false),
				},
			},
		},
	}
}
