package handlers

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"werkstatt-bot/model"
	"werkstatt-bot/utils"
)

// TableCounter reports the row count of every table.
type TableCounter interface {
	TableCounts(ctx context.Context) (map[string]int, error)
}

// SystemInfoEmbed describes the host, the runtime and the record store.
func SystemInfoEmbed(counts map[string]int, latency time.Duration, now time.Time) *discordgo.MessageEmbed {
	cpuCount, _ := cpu.Counts(true)
	cpuUsage := "-"
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", percent[0])
	}
	memory := "-"
	if vm, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}
	platform, kernel := "-", "-"
	if info, err := host.Info(); err == nil {
		platform = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
		kernel = info.KernelVersion
	}

	embed := &discordgo.MessageEmbed{
		Title: "Systeminformationen",
		Color: utils.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 Betriebssystem", Value: platform, Inline: true},
			{Name: "🔧 Kernel", Value: kernel, Inline: true},
			{Name: "🐹 Go-Version", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPU-Kerne", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU-Auslastung", Value: cpuUsage, Inline: true},
			{Name: "🧠 Arbeitsspeicher", Value: memory, Inline: true},
			{Name: "⏱️ WebSocket-Latenz", Value: latency.String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Systemueberwachung - heute " + now.Format("15:04"),
		},
	}

	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🗃️ " + table,
			Value:  utils.FormatCount(int64(counts[table])),
			Inline: true,
		})
	}
	return embed
}

// SystemInfoHandler serves /systeminfo.
func SystemInfoHandler(s model.Session, i *discordgo.InteractionCreate, store TableCounter, cfg *model.Config, latency time.Duration, now time.Time, logger *zap.Logger) {
	if !utils.HasPermission(i.Member, utils.AdminPermission, cfg.AdminRoleIDs, cfg.ModeratorRoleIDs) {
		utils.SendErrorResponse(s, i, "Du hast keine Berechtigung fuer diesen Befehl.")
		return
	}
	counts, err := store.TableCounts(context.Background())
	if err != nil {
		logger.Warn("error counting table rows", zap.Error(err))
	}
	if err := utils.SendEmbed(s, i, SystemInfoEmbed(counts, latency, now.In(cfg.Location)), true); err != nil {
		logger.Warn("error sending system info", zap.Error(err))
	}
}
