package defs

import "github.com/bwmarrin/discordgo"

var Abmelden = &discordgo.ApplicationCommand{
	Name:        "abmelden",
	Description: "Register an absence for a period",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Melde dich fuer einen Zeitraum ab",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "grund",
			Description: "Grund fuer die Abmeldung",
			Required:    true,
			MaxLength:   500,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "von",
			Description: "Startdatum (TT.MM.JJJJ oder JJJJ-MM-TT)",
			Required:    true,
			MaxLength:   10,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "bis",
			Description: "Enddatum (TT.MM.JJJJ oder JJJJ-MM-TT)",
			Required:    true,
			MaxLength:   10,
		},
	},
}

var Abmeldungen = &discordgo.ApplicationCommand{
	Name:        "abmeldungen",
	Description: "Show active absences",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Zeige aktive Abmeldungen an",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "benutzer",
			Description: "Abmeldungen eines bestimmten Benutzers anzeigen",
			Required:    false,
		},
	},
}

var AbmeldungLoeschen = &discordgo.ApplicationCommand{
	Name:        "abmeldung-loeschen",
	Description: "Delete an absence",
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.German: "Loesche eine Abmeldung",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "ID der Abmeldung",
			Required:    true,
		},
	},
}
