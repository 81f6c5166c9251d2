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


package core

import "fmt"

// ValidateChat validates a Chat according to domain rules.
//
// Validation rules:
//   - ID must not be empty (it becomes the primary key)
//   - UserID must not be empty (it names the owner index)
//
// NOT validated:
//   - Messages (an empty conversation is storable)
//   - CreatedAt (assigned by the repository at save time)
func ValidateChat(chat *Chat) error {
	if chat == nil {
		return fmt.Errorf("%w: chat is nil", ErrInvalidChat)
	}
	if chat.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChat, ErrEmptyID)
	}
	if chat.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChat, ErrEmptyOwner)
	}
	return nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Title and Content may be empty: drafts are saved on every keystroke batch
// and an empty draft is a legitimate state.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}
	if doc.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyOwner)
	}
	return nil
}

// ValidateSuggestion validates a Suggestion according to domain rules.
func ValidateSuggestion(s *Suggestion) error {
	if s == nil {
		return fmt.Errorf("%w: suggestion is nil", ErrInvalidSuggestion)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSuggestion, ErrEmptyID)
	}
	if s.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSuggestion, ErrEmptyDocumentID)
	}
	if s.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSuggestion, ErrEmptyOwner)
	}
	return nil
}

// ValidateCredentials validates the inputs to user creation.
func ValidateCredentials(email, password string) error {
	if email == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyEmail)
	}
	if password == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyPassword)
	}
	return nil
}
