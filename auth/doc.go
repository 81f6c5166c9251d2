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


// Package auth provides the credential gate in front of the user store and
// the session tokens issued once a caller has passed it.
//
// The gate checks an email and password pair against the stored bcrypt hash
// and answers with either an identity or ErrInvalidCredentials. Unknown
// accounts and wrong passwords are indistinguishable to the caller; store
// failures are not folded into the rejection and propagate as themselves.
package auth
