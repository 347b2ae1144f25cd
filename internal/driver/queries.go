package driver

const (
	ContactExistsQuery = `
		MATCH (c:Contact {id: $id})
		RETURN c.id AS id
	`

	UpsertContactQuery = `
		MERGE (c:Contact {id: $id})
		ON CREATE SET c.created_at = datetime()
		SET c.name = $name,
			c.email = $email,
			c.phone = $phone,
			c.organization = $organization,
			c.previous_organization = $previous_organization,
			c.city = $city,
			c.country = $country,
			c.birthday = $birthday,
			c.photo_url = $photo_url,
			c.address = $address,
			c.street = $street,
			c.postal_code = $postal_code,
			c.notes = COALESCE(c.notes, $notes),
			c.raw_data = $raw_data,
			c.tags = $tags,
			c.uncategorized = $uncategorized,
			c.updated_at = datetime()
		RETURN c.id AS id
	`

	GetContactsQuery = `
		MATCH (c:Contact)
		RETURN c
		ORDER BY c.name
	`

	SearchContactsQuery = `
		MATCH (c:Contact)
		WHERE toLower(c.name) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.email, '')) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.organization, '')) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.previous_organization, '')) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.city, '')) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.country, '')) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.phone, '')) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.address, '')) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.notes, '')) CONTAINS toLower($search_term)
		   OR toLower(coalesce(c.birthday, '')) CONTAINS toLower($search_term)
		   OR ANY(tag IN coalesce(c.tags, []) WHERE toLower(tag) CONTAINS toLower($search_term))
		RETURN c
		ORDER BY c.name
	`

	GetContactByIDQuery = `
		MATCH (c:Contact {id: $id})
		RETURN c
	`

	GetUncategorizedContactsQuery = `
		MATCH (c:Contact)
		WHERE coalesce(c.uncategorized, false) = true
		RETURN c
		ORDER BY c.name
	`

	// SavePairEdgeQuery is a template: the relationship type is interpolated
	// from the engine's closed vocabulary, never from user input.
	SavePairEdgeQuery = `
		MATCH (source:Contact {id: $source_id})
		MATCH (target:Contact {id: $target_id})
		MERGE (source)-[r:%s]->(target)
		SET r.uuid = $uuid,
			r.strength = $strength,
			r.metadata = $metadata,
			r.relationship_type = $relationship_type
		RETURN r.uuid AS uuid
	`

	MergeOrganizationQuery = `
		MERGE (org:Organization {id: $org_id})
		ON CREATE SET org.name = $org_name,
			org.type = 'organization',
			org.created_at = datetime()
		SET org.employee_count = $employee_count
		RETURN org.id AS id
	`

	SaveHubEdgeQuery = `
		MATCH (source:Contact {id: $source_id})
		MATCH (target:Organization {id: $target_id})
		MERGE (source)-[r:WORKS_AT]->(target)
		SET r.uuid = $uuid,
			r.strength = $strength,
			r.metadata = $metadata,
			r.relationship_type = $relationship_type
		RETURN r.uuid AS uuid
	`

	GetContactEdgesQuery = `
		MATCH (source:Contact)-[r]->(target:Contact)
		WHERE r.relationship_type IS NOT NULL
		RETURN r.uuid AS uuid, r.relationship_type AS relationship_type,
		       r.strength AS strength, r.metadata AS metadata,
		       source.id AS source_id, target.id AS target_id
	`

	GetHubEdgesQuery = `
		MATCH (source:Contact)-[r]->(target:Organization)
		RETURN r.uuid AS uuid, r.relationship_type AS relationship_type,
		       r.strength AS strength, r.metadata AS metadata,
		       source.id AS source_id, target.id AS target_id
	`

	// ClearInferredEdgesQuery removes every inferred relationship so a sync
	// can write the recomputed set; clear-and-replace, never merge.
	ClearInferredEdgesQuery = `
		MATCH ()-[r]-()
		WHERE r.relationship_type IS NOT NULL
		DELETE r
	`

	// Full wipe, used by backup restore with clear_existing.
	ClearAllRelationshipsQuery = `
		MATCH ()-[r]-()
		DELETE r
	`

	ClearAllNodesQuery = `
		MATCH (n)
		DELETE n
	`

	AddTagQuery = `
		MATCH (c:Contact {id: $id})
		SET c.tags = coalesce(c.tags, []) + CASE WHEN $tag IN coalesce(c.tags, []) THEN [] ELSE [$tag] END
		RETURN c.id AS id
	`

	RemoveTagQuery = `
		MATCH (c:Contact {id: $id})
		SET c.tags = [t IN coalesce(c.tags, []) WHERE t <> $tag]
		RETURN c.id AS id
	`

	UpdateNotesQuery = `
		MATCH (c:Contact {id: $id})
		SET c.notes = $notes, c.updated_at = datetime()
		RETURN c.id AS id
	`

	SetSyncTokenQuery = `
		MERGE (s:SyncMeta {key: 'sync_token'})
		SET s.value = $token, s.updated_at = datetime()
	`

	GetSyncTokenQuery = `
		MATCH (s:SyncMeta {key: 'sync_token'})
		RETURN s.value AS token
	`

	GraphCountsQuery = `
		MATCH (c:Contact)
		OPTIONAL MATCH ()-[r]-()
		WHERE r.relationship_type IS NOT NULL
		RETURN count(DISTINCT c) AS contact_count, count(DISTINCT r) AS relationship_count
	`

	RelationshipTypesQuery = `
		MATCH ()-[r]-()
		WHERE r.relationship_type IS NOT NULL
		RETURN r.relationship_type AS type, count(*) AS count
		ORDER BY count DESC
	`

	TopConnectedQuery = `
		MATCH (c:Contact)-[r]-()
		WHERE r.relationship_type IS NOT NULL
		RETURN c.name AS name, count(r) AS connections
		ORDER BY connections DESC
		LIMIT 10
	`

	ShortestPathQuery = `
		MATCH (source:Contact {id: $source_id}), (target:Contact {id: $target_id})
		MATCH path = shortestPath((source)-[*..10]-(target))
		RETURN [node IN nodes(path) | {id: node.id, name: node.name}] AS nodes,
		       [rel IN relationships(path) | rel.relationship_type] AS relationships
	`

	GetOrganizationsQuery = `
		MATCH (org:Organization)
		RETURN org
		ORDER BY org.name
	`
)
