// Package render formats ranked results for size-constrained chat channels.
package render

// Channel identifies the delivery surface a page is rendered for.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWeb      Channel = "web"
	ChannelEmail    Channel = "email"
)

// channelProfile bounds what one rendered page may contain.
type channelProfile struct {
	// messageBudget is the hard character ceiling for a whole page.
	messageBudget int
	// snippetBudget caps the content excerpt of a single item.
	snippetBudget int
	moreHint      string
}

// Telegram has the tightest limits of the supported channels, so its profile
// doubles as the fallback for unknown channels.
var channelProfiles = map[Channel]channelProfile{
	ChannelTelegram: {
		messageBudget: 3500,
		snippetBudget: 80,
		moreHint:      "Send /more for the next page.",
	},
	ChannelWeb: {
		messageBudget: 8000,
		snippetBudget: 160,
		moreHint:      "Use the More button for the next page.",
	},
	ChannelEmail: {
		messageBudget: 12000,
		snippetBudget: 200,
		moreHint:      "Reply MORE for the next page.",
	},
}

func profileFor(ch Channel) channelProfile {
	if p, ok := channelProfiles[ch]; ok {
		return p
	}
	return channelProfiles[ChannelTelegram]
}

// categoryIcons decorates items by record category.
var categoryIcons = map[string]string{
	"bills":    "🧾",
	"finance":  "💳",
	"health":   "🏥",
	"work":     "💼",
	"travel":   "✈️",
	"shopping": "🛒",
	"home":     "🏠",
	"ideas":    "💡",
}

const defaultIcon = "📌"

func iconFor(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return defaultIcon
}
