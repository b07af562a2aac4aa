package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Version(name);",
	"CREATE INDEX ON :Species(name);",
}

const (
	SaveVersionQuery = `
		MERGE (v:Version {name: $name})
		SET v.run_id = $run_id,
			v.checked_at = $checked_at,
			v.species_count = $species_count,
			v.conflict_count = $conflict_count,
			v.error = $error
		RETURN v.name AS name
	`

	ClearVersionEdgesQuery = `
		MATCH (v:Version {name: $name})-[r:DECLARES|CONFLICT]->()
		DELETE r
	`

	SaveSpeciesQuery = `
		MATCH (v:Version {name: $version})
		UNWIND $species AS s
		MERGE (n:Species {name: s.name})
		MERGE (v)-[r:DECLARES]->(n)
		SET r.ro2_classified = s.classified,
			r.ro2_declared = s.declared
	`

	SaveConflictsQuery = `
		MATCH (v:Version {name: $version})
		UNWIND $conflicts AS c
		MERGE (n:Species {name: c.species})
		CREATE (v)-[r:CONFLICT {category: c.category, direction: c.direction, run_id: $run_id}]->(n)
	`

	GetVersionConflictsQuery = `
		MATCH (v:Version {name: $version})-[r:CONFLICT]->(n:Species)
		RETURN n.name AS species, r.category AS category, r.direction AS direction
		ORDER BY category, direction, species
	`
)
