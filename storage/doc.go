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


// Package storage provides the storage abstraction layer for chatstore.
//
// This package defines repository interfaces that decouple storage
// implementation from the calling web layer, plus the codec boundary that
// converts typed records to and from the flat string field maps the
// key-value backend persists. Untyped field maps exist only inside this
// layer; repositories hand typed records to callers.
//
// # Persisted layout
//
// Every entity is a flat field map under a templated primary key
// (user:<email>, chat:<id>, document:<id>, suggestion:<id>) plus entries in
// ordered per-owner indexes (users, user:chat:<userId>,
// user:document:<userId>, user:suggestion:<userId>,
// document:suggestions:<documentId>) scored by insertion time in
// milliseconds. These templates and field names are the system's wire
// format: data written by prior versions must keep decoding, so they are
// never renamed.
//
// # Read policies
//
// Listing operations declare an explicit ReadPolicy. FailOpen listings
// degrade to an empty result on a store failure so a transient index problem
// cannot take down a page render; FailClosed operations propagate the error.
// The policy is part of each operation's contract, not an accident of
// error handling.
//
// # Consistency
//
// Batched writes are pipelined for throughput, not atomicity. A record write
// and its index entry usually land together, but a failure mid-batch can
// leave one without the other. Listing paths therefore treat a dangling
// index entry as absence and drop it silently.
package storage
