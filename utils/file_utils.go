package utils

import (
	"bytes"
	"os"

	"github.com/bwmarrin/discordgo"
)

// LogoFileName is the attachment name embeds reference the logo by.
const LogoFileName = "logo_firma.png"

// LogoThumbnailURL points an embed thumbnail at the attached logo.
const LogoThumbnailURL = "attachment://" + LogoFileName

// LoadLogo reads the company logo into a fresh attachment. It returns nil
// when path is empty or unreadable; callers then send without a logo.
func LoadLogo(path string) *discordgo.File {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return &discordgo.File{
		Name:        LogoFileName,
		ContentType: "image/png",
		Reader:      bytes.NewReader(data),
	}
}
