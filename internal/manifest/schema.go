package manifest

// ExampleYAML is a minimal, fully-populated ergo.yaml for documentation.
const ExampleYAML = `schema: ergo.manifest/v1
module: example.org/widgets
target_version: 0.1.0
search_paths:
  - ./vendor/ergo-packages
no_std: false
`
