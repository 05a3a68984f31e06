/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	schema = `
	-- One row per entity set; document holds the JSON array of records
	CREATE TABLE IF NOT EXISTS entity_sets (
		name TEXT PRIMARY KEY,
		document TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	queryGetDocument = `
		SELECT document
		FROM entity_sets
		WHERE name = ?`

	queryUpsertDocument = `
		INSERT INTO entity_sets (name, document, version, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			version = entity_sets.version + 1,
			updated_at = CURRENT_TIMESTAMP`

	queryGetVersion = `
		SELECT version
		FROM entity_sets
		WHERE name = ?`
)
