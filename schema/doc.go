/*
Package schema defines the Descriptor tree that drives both parsing and
prompt generation, and the three ways of building one:

  - explicit builders (Object, List, Union, String, ...) for hand-declared
    schemas;
  - ForType, which derives a tree from a Go struct via `llmxml` / `desc`
    struct tags plus RegisterUnion for interface-typed fields;
  - FromYAML and FromJSONSchema for callers that hold a declarative schema
    rather than a Go type.

Descriptors are immutable once built. ForType caches one tree per Go type
for the life of the process; construction is idempotent, so a populate race
simply drops the losing tree.
*/
package schema
