package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"market_monitor/internal/adapters/observability"
	"market_monitor/internal/domain"
)

// Fallback is returned whenever the generation endpoint cannot produce an
// answer. Suggest never returns an empty string.
const Fallback = "Thank you for your feedback. We are looking into this issue."

// BrandVoice carries the knobs the prompt is built from.
type BrandVoice struct {
	Name             string // e.g. "APP"
	AltName          string // e.g. "SquareTrade" (EU/APAC branding)
	ContactURLGlobal string
	ContactURLEU     string
	ContactURLAPAC   string
}

// Responder drafts a brand-voice reply for one review. A response cache keyed
// by review-text hash sits in front of the generation call; cache failures
// degrade to a live call.
type Responder struct {
	gen      domain.Generator
	cache    domain.ResponseCache
	cacheTTL time.Duration
	voice    BrandVoice
}

func NewResponder(g domain.Generator, cache domain.ResponseCache, ttl time.Duration, voice BrandVoice) *Responder {
	return &Responder{gen: g, cache: cache, cacheTTL: ttl, voice: voice}
}

// Suggest returns a reply for the review text, or the fixed fallback when the
// endpoint times out, fails, or answers with nothing usable.
func (r *Responder) Suggest(ctx context.Context, reviewText, localeHint string) string {
	key := "resp:" + textKey(reviewText)
	if r.cache != nil {
		if v, ok, err := r.cache.Get(ctx, key); err == nil && ok && v != "" {
			return v
		}
	}

	answer, err := r.gen.Generate(ctx, r.prompt(reviewText, localeHint))
	if err != nil || strings.TrimSpace(answer) == "" {
		observability.GenerationFallbacks.Inc()
		log.Warn().Err(err).Msg("generation failed, using fallback response")
		return Fallback
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, answer, r.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("response cache set failed")
		}
	}
	return answer
}

func (r *Responder) prompt(reviewText, localeHint string) string {
	return fmt.Sprintf(
		"Act as the elite CX agent for %s (known as %s in EU/APAC). "+
			"Analyze sentiment internally and do not state it in your output. "+
			"Match the customer's brand usage (%s vs %s) if visible, otherwise default to '%s' or a neutral 'We'. "+
			"Briefly reference the specific product or issue mentioned to demonstrate active listening. "+
			"If the sentiment is negative, empathize with the specific frustration using active, accountable language "+
			"and avoid passive phrases like 'expectations didn't align' or 'inconvenience caused'. "+
			"Keep the response under 100 words. "+
			"If contact is needed for resolution, direct them to %s. "+
			"Output ONLY the final direct response: %s",
		r.voice.Name, r.voice.AltName, r.voice.Name, r.voice.AltName, r.voice.Name,
		r.contactURL(localeHint), reviewText,
	)
}

// contactURL picks the regional contact page from the locale hint.
func (r *Responder) contactURL(locale string) string {
	switch l := strings.ToLower(locale); {
	case strings.HasPrefix(l, "eu"), strings.HasPrefix(l, "uk"), strings.HasPrefix(l, "gb"):
		return r.voice.ContactURLEU
	case strings.HasPrefix(l, "au"), strings.HasPrefix(l, "nz"), strings.HasPrefix(l, "apac"):
		return r.voice.ContactURLAPAC
	default:
		return r.voice.ContactURLGlobal
	}
}

func textKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
