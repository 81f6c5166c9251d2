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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChat indicates a Chat failed validation.
	ErrInvalidChat = errors.New("invalid chat")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidSuggestion indicates a Suggestion failed validation.
	ErrInvalidSuggestion = errors.New("invalid suggestion")

	// ErrInvalidUser indicates a User failed validation.
	ErrInvalidUser = errors.New("invalid user")

	// ErrEmptyID indicates a required id field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyOwner indicates the owning user id is empty.
	ErrEmptyOwner = errors.New("owner user id cannot be empty")

	// ErrEmptyEmail indicates the email field is empty.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrEmptyPassword indicates an empty password was supplied.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrEmptyDocumentID indicates a suggestion without a parent document.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")
)
