// Copyright 2026 Plexity Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/plexity/chatstore/core"
)

// The codec converts typed records to and from the flat string field maps the
// backend persists. Decoding repairs type drift on every read: the store
// holds only strings, and data written by prior versions stored timestamps
// either as RFC 3339 text or as epoch milliseconds. Decoders return nil for
// an absent or empty map and never return an error; a field that cannot be
// repaired decodes to its zero value, and an unparsable messages array
// decodes to an empty list.

// EncodeUser flattens a user account record.
func EncodeUser(u *core.User) map[string]string {
	return map[string]string{
		"id":       u.ID,
		"email":    u.Email,
		"password": u.Password,
	}
}

// DecodeUser rebuilds a user from stored fields. Returns nil for absence.
func DecodeUser(fields map[string]string) *core.User {
	if len(fields) == 0 {
		return nil
	}
	return &core.User{
		ID:       fields["id"],
		Email:    fields["email"],
		Password: fields["password"],
	}
}

// EncodeChat flattens a chat, serializing the message list to a JSON array.
func EncodeChat(c *core.Chat) map[string]string {
	return map[string]string{
		"id":        c.ID,
		"messages":  encodeMessages(c.Messages),
		"userId":    c.UserID,
		"createdAt": encodeTime(c.CreatedAt),
	}
}

// DecodeChat rebuilds a chat from stored fields. Returns nil for absence.
// Messages on a returned chat is always non-nil, even when the stored value
// is missing or corrupted.
func DecodeChat(fields map[string]string) *core.Chat {
	if len(fields) == 0 {
		return nil
	}
	return &core.Chat{
		ID:        fields["id"],
		Messages:  decodeMessages(fields["messages"]),
		UserID:    fields["userId"],
		CreatedAt: decodeTime(fields["createdAt"]),
	}
}

// EncodeDocument flattens a document.
func EncodeDocument(d *core.Document) map[string]string {
	return map[string]string{
		"id":        d.ID,
		"title":     d.Title,
		"content":   d.Content,
		"userId":    d.UserID,
		"createdAt": encodeTime(d.CreatedAt),
	}
}

// DecodeDocument rebuilds a document from stored fields. Returns nil for
// absence.
func DecodeDocument(fields map[string]string) *core.Document {
	if len(fields) == 0 {
		return nil
	}
	return &core.Document{
		ID:        fields["id"],
		Title:     fields["title"],
		Content:   fields["content"],
		UserID:    fields["userId"],
		CreatedAt: decodeTime(fields["createdAt"]),
	}
}

// EncodeSuggestion flattens a suggestion. IsResolved is written as
// "true"/"false".
func EncodeSuggestion(s *core.Suggestion) map[string]string {
	return map[string]string{
		"id":                s.ID,
		"documentId":        s.DocumentID,
		"documentCreatedAt": encodeTime(s.DocumentCreatedAt),
		"originalText":      s.OriginalText,
		"suggestedText":     s.SuggestedText,
		"description":       s.Description,
		"isResolved":        strconv.FormatBool(s.IsResolved),
		"userId":            s.UserID,
		"createdAt":         encodeTime(s.CreatedAt),
	}
}

// DecodeSuggestion rebuilds a suggestion from stored fields. Returns nil for
// absence. IsResolved is coerced from any boolean-ish string or number.
func DecodeSuggestion(fields map[string]string) *core.Suggestion {
	if len(fields) == 0 {
		return nil
	}
	return &core.Suggestion{
		ID:                fields["id"],
		DocumentID:        fields["documentId"],
		DocumentCreatedAt: decodeTime(fields["documentCreatedAt"]),
		OriginalText:      fields["originalText"],
		SuggestedText:     fields["suggestedText"],
		Description:       fields["description"],
		IsResolved:        decodeBool(fields["isResolved"]),
		UserID:            fields["userId"],
		CreatedAt:         decodeTime(fields["createdAt"]),
	}
}

func encodeMessages(messages []core.Message) string {
	if messages == nil {
		messages = []core.Message{}
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeMessages(raw string) []core.Message {
	if raw == "" {
		return []core.Message{}
	}
	var messages []core.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		// Drifted or corrupted payload: degrade to an empty conversation
		// rather than surfacing a decode error.
		return []core.Message{}
	}
	if messages == nil {
		return []core.Message{}
	}
	return messages
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// decodeTime accepts both representations seen in stored data: RFC 3339 text
// and integer epoch milliseconds. Anything else decodes to the zero time.
func decodeTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

func decodeBool(raw string) bool {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n != 0
	}
	return false
}
