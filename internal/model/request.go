package model

import (
	"fmt"
	"strings"
	"time"
)

// InputKind tells how the user input should be interpreted
type InputKind string

const (
	KindKeyword InputKind = "keyword"
	KindURL     InputKind = "url"
	KindTopic   InputKind = "topic"
)

// ParseInputKind validates a raw kind string
func ParseInputKind(s string) (InputKind, error) {
	switch k := InputKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindKeyword, KindURL, KindTopic:
		return k, nil
	default:
		return "", fmt.Errorf("unknown input type %q (want keyword, url or topic)", s)
	}
}

// Tone is the writing register requested for an article
type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneCasual        Tone = "casual"
	ToneAuthoritative Tone = "authoritative"
	ToneFriendly      Tone = "friendly"
)

const (
	DefaultWordCount = 1500
	MinWordCount     = 100
	MaxWordCount     = 10000
)

// GenerationOptions tune a single generation
type GenerationOptions struct {
	WordCount      int      `json:"wordCount,omitempty" yaml:"word_count" validate:"omitempty,min=100,max=10000"`
	Tone           Tone     `json:"tone,omitempty" yaml:"tone" validate:"omitempty,oneof=professional casual authoritative friendly"`
	TargetKeywords []string `json:"targetKeywords,omitempty" yaml:"target_keywords" validate:"omitempty,max=20,dive,required,max=100"`
}

// WithDefaults fills unset options
func (o GenerationOptions) WithDefaults() GenerationOptions {
	if o.WordCount == 0 {
		o.WordCount = DefaultWordCount
	}
	if o.Tone == "" {
		o.Tone = ToneProfessional
	}
	return o
}

// Clone returns a copy that shares no slices with o
func (o GenerationOptions) Clone() GenerationOptions {
	if o.TargetKeywords != nil {
		o.TargetKeywords = append([]string{}, o.TargetKeywords...)
	}
	return o
}

// RequestStatus is the state of a synchronous automation request
type RequestStatus string

const (
	RequestPending     RequestStatus = "pending"
	RequestResearching RequestStatus = "researching"
	RequestGenerating  RequestStatus = "generating"
	RequestCompleted   RequestStatus = "completed"
	RequestError       RequestStatus = "error"
)

// ContentRequest is an automation request, archived alongside its article
type ContentRequest struct {
	ID             string        `json:"id"`
	Type           InputKind     `json:"type"`
	Input          string        `json:"input"`
	TargetKeywords []string      `json:"targetKeywords,omitempty"`
	WordCount      int           `json:"wordCount"`
	Tone           Tone          `json:"tone"`
	CreatedAt      time.Time     `json:"createdAt"`
	Status         RequestStatus `json:"status"`
}
