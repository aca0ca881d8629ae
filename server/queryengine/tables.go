package queryengine

import "github.com/lifeinbox/lifeinbox/store"

// Complexity marker tables. A query containing any of these needs more than
// keyword matching to interpret, so it is routed to the language model.
// Plain lookup tables keep the routing auditable and trivially extendable.

var questionWords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "who": {}, "whose": {},
	"which": {}, "how": {}, "why": {},
}

// temporalRelations are words that relate two points in time. Plain date
// words like "today" stay on the simple path and are resolved there.
var temporalRelations = map[string]struct{}{
	"before": {}, "after": {}, "between": {}, "since": {},
	"until": {}, "during": {},
}

var intentVerbs = map[string]struct{}{
	"remind": {}, "schedule": {}, "summarize": {}, "compare": {},
	"plan": {}, "organize": {},
}

var entityTypes = map[string]struct{}{
	"appointment": {}, "appointments": {},
	"event": {}, "events": {},
	"task": {}, "tasks": {},
	"contact": {}, "contacts": {},
	"deadline": {}, "deadlines": {},
}

// contentTypeKeywords maps query words to the content type they imply.
var contentTypeKeywords = map[string]store.ContentType{
	"voice":      store.ContentTypeVoice,
	"audio":      store.ContentTypeVoice,
	"recording":  store.ContentTypeVoice,
	"recordings": store.ContentTypeVoice,
	"photo":      store.ContentTypeImage,
	"photos":     store.ContentTypeImage,
	"picture":    store.ContentTypeImage,
	"pictures":   store.ContentTypeImage,
	"image":      store.ContentTypeImage,
	"images":     store.ContentTypeImage,
	"screenshot": store.ContentTypeImage,
	"email":      store.ContentTypeEmail,
	"emails":     store.ContentTypeEmail,
	"mail":       store.ContentTypeEmail,
	"note":       store.ContentTypeText,
	"notes":      store.ContentTypeText,
}

func isComplexityMarker(token string) bool {
	if _, ok := questionWords[token]; ok {
		return true
	}
	if _, ok := temporalRelations[token]; ok {
		return true
	}
	if _, ok := intentVerbs[token]; ok {
		return true
	}
	_, ok := entityTypes[token]
	return ok
}
