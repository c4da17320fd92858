// Copyright 2025 Poiesic Systems
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


// Package ingest validates and normalizes raw card payloads into the
// canonical document corpus.
//
// A payload arrives as a loosely typed object (typically decoded JSON).
// Decoding is coercive for scalar fields, but shape-level problems
// (documents or tagCatalog not arrays, assetTagMap not map-like) are fatal
// and reported as a SchemaError that aggregates every violation found.
// Per-document problems are collected and skip only the offending record.
package ingest
