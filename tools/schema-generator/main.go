package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/grovetools/agentchat/config"
	"github.com/invopop/jsonschema"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&config.Config{})
	schema.Title = "Agent Chat (agchat) Configuration"
	schema.Description = "Schema for the 'agchat' extension in grove.yml: rendering, audio storage and GraphQL endpoint settings."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile("agchat.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated agchat schema at agchat.schema.json")
}
