package defs

import "github.com/bwmarrin/discordgo"

func customerOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "kunde",
			Description: "Name des Kunden",
			Required:    true,
			MaxLength:   100,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "kennzeichen",
			Description: "Kennzeichen des Fahrzeugs",
			Required:    true,
			MaxLength:   8,
		},
	}
}

func imageOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionAttachment,
		Name:        "bild",
		Description: "Bild des Fahrzeugs",
		Required:    true,
	}
}

var Tuningchip = &discordgo.ApplicationCommand{
	Name:        "tuningchip",
	Description: "Document a chip tuning job",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Dokumentiere ein Tuningchip-Tuning",
	},
	Options: append(customerOptions(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "beschreibung",
			Description: "Durchgefuehrte Aenderungen",
			Required:    true,
			MaxLength:   1000,
		},
		imageOption(),
	),
}

var Stance = &discordgo.ApplicationCommand{
	Name:        "stance",
	Description: "Document a stance tuning job",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Dokumentiere ein Stance-Tuning",
	},
	Options: append(customerOptions(), imageOption()),
}

var Xenon = &discordgo.ApplicationCommand{
	Name:        "xenon",
	Description: "Document a xenon headlight job",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Dokumentiere Xenon-Scheinwerfer",
	},
	Options: append(customerOptions(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "farbe",
			Description: "Farbe der Xenon-Scheinwerfer",
			Required:    true,
			MaxLength:   50,
		},
		imageOption(),
	),
}

var Eigentuning = &discordgo.ApplicationCommand{
	Name:        "eigentuning",
	Description: "Document a self-tuning job",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Dokumentiere ein Eigentuning",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "rechnungssteller",
			Description: "Wer hat die Rechnung ausgestellt?",
			Required:    true,
			MaxLength:   100,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "einkaufspreis",
			Description: "Einkaufspreis in $",
			Required:    true,
			MinValue:    &minFine,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "rechnungshoehe",
			Description: "Hoehe der ausgestellten Rechnung in $",
			Required:    true,
			MinValue:    &minFine,
		},
	},
}
