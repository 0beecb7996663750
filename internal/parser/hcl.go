package parser

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/relgraph/core/internal/models"
)

// hclSchema mirrors documents such as:
//
//	entity "Physician" {
//	  relationship "has_many" "appointments" {}
//	  relationship "has_many" "patients" {
//	    through = "appointments"
//	  }
//	}
type hclSchema struct {
	Entities []hclEntity `hcl:"entity,block"`
}

type hclEntity struct {
	Name          string            `hcl:"name,label"`
	Abstract      bool              `hcl:"abstract,optional"`
	Synthetic     bool              `hcl:"synthetic,optional"`
	Relationships []hclRelationship `hcl:"relationship,block"`
}

type hclRelationship struct {
	Kind       string `hcl:"kind,label"`
	Name       string `hcl:"name,label"`
	Target     string `hcl:"target,optional"`
	Through    string `hcl:"through,optional"`
	JoinEntity string `hcl:"join_entity,optional"`
}

func decodeHCL(data []byte) (models.Schema, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, "schema.hcl")
	if diags.HasErrors() {
		return models.Schema{}, diags
	}

	var root hclSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return models.Schema{}, diags
	}

	schema := models.Schema{Entities: make([]models.Entity, 0, len(root.Entities))}
	for _, e := range root.Entities {
		entity := models.Entity{
			Name:      models.EntityID(e.Name),
			Abstract:  e.Abstract,
			Synthetic: e.Synthetic,
		}
		for _, r := range e.Relationships {
			kind, err := models.ParseKind(r.Kind)
			if err != nil {
				return models.Schema{}, fmt.Errorf("entity %q: %w", e.Name, err)
			}
			entity.Relationships = append(entity.Relationships, models.Relationship{
				Name:       r.Name,
				Kind:       kind,
				Target:     models.EntityID(r.Target),
				Through:    r.Through,
				JoinEntity: models.EntityID(r.JoinEntity),
			})
		}
		schema.Entities = append(schema.Entities, entity)
	}
	return schema, nil
}
