package pipeline

import (
	"github.com/oaswift/oaswift/internal/config"
	"github.com/oaswift/oaswift/internal/ir"
	"github.com/oaswift/oaswift/internal/refgraph"
	"github.com/oaswift/oaswift/internal/render"
	"github.com/oaswift/oaswift/internal/sharding"
	"github.com/oaswift/oaswift/internal/translate"
)

// renderSharded emits the multi-file types output: a root file with the
// API protocol, base files declaring the namespace shells, and one file
// per (layer, shard, index) extending the namespaces with their
// declarations. Layering guarantees no file references a declaration in a
// later layer's file.
func renderSharded(cfg *config.Config, types *translate.TypesFile, graph *refgraph.Graph, analysis *refgraph.Analysis) []OutputFile {
	shardCfg := cfg.Sharding
	namer := sharding.Namer{Prefix: shardCfg.ModulePrefix}
	imports := append(render.DefaultImports, cfg.AdditionalImports...)

	var files []OutputFile

	// Root: the API protocol and module-level declarations.
	files = append(files, OutputFile{
		Name: namer.TypesRoot(),
		Contents: []byte(render.File(render.FileOptions{Imports: imports}, func(e *render.Emitter) {
			render.RenderDecl(e, types.Protocol)
		})),
	})

	// Base files declare the empty namespace shells the shard files extend.
	files = append(files, OutputFile{
		Name: namer.ComponentsBase(),
		Contents: []byte(render.File(render.FileOptions{Imports: imports}, func(e *render.Emitter) {
			e.Block("%senum Components", accessPrefix(cfg))
			e.Line("%senum Schemas {}", accessPrefix(cfg))
			e.EndBlock()
		})),
	})

	// Plan schema declarations over the reference layering.
	declsByName := map[string]ir.Decl{}
	var items []sharding.Item
	for _, d := range schemaDecls(types) {
		name := ir.DeclName(d)
		declsByName[name] = d
		items = append(items, sharding.Item{
			Name:  name,
			Layer: types.Schemas.LayerOf[name],
			Refs:  schemaRefsOf(graph, name),
		})
	}
	planned := sharding.Plan(items, sharding.Options{
		ShardCounts:     shardCfg.TypeShardCounts,
		MaxDeclsPerFile: shardCfg.MaxFilesPerShard,
	})
	for _, file := range planned {
		name := namer.ComponentsFile(file.Shard, file.Index)
		if file.Layer > 0 {
			name = namer.TypesFile(file.Layer, file.Shard, file.Index)
		}
		decls := make([]ir.Decl, 0, len(file.Items))
		for _, itemName := range file.Items {
			decls = append(decls, declsByName[itemName])
		}
		files = append(files, OutputFile{
			Name: name,
			Contents: []byte(render.File(render.FileOptions{Imports: imports}, func(e *render.Emitter) {
				render.RenderDecl(e, ir.ExtensionDecl{
					OnType: "Components.Schemas",
					Decls:  decls,
				})
			})),
		})
	}

	// Operations: base shell plus one layer of operation namespaces.
	files = append(files, OutputFile{
		Name: namer.OperationsBase(),
		Contents: []byte(render.File(render.FileOptions{Imports: imports}, func(e *render.Emitter) {
			e.Line("%senum Operations {}", accessPrefix(cfg))
		})),
	})

	opDecls := map[string]ir.Decl{}
	var opItems []sharding.Item
	for _, d := range operationDecls(types) {
		name := ir.DeclName(d)
		opDecls[name] = d
		opItems = append(opItems, sharding.Item{Name: name, Layer: 0})
	}
	opPlanned := sharding.Plan(opItems, sharding.Options{
		ShardCounts:     shardCfg.OperationLayerShardCounts,
		MaxDeclsPerFile: shardCfg.MaxFilesPerShardOps,
	})
	for _, file := range opPlanned {
		decls := make([]ir.Decl, 0, len(file.Items))
		for _, itemName := range file.Items {
			decls = append(decls, opDecls[itemName])
		}
		files = append(files, OutputFile{
			Name: namer.OperationsFile(file.Layer, file.Shard, file.Index),
			Contents: []byte(render.File(render.FileOptions{Imports: imports}, func(e *render.Emitter) {
				render.RenderDecl(e, ir.ExtensionDecl{
					OnType: "Operations",
					Decls:  decls,
				})
			})),
		})
	}

	return files
}

func accessPrefix(cfg *config.Config) string {
	if cfg.Access == "" {
		return ""
	}
	return string(cfg.Access) + " "
}

// schemaDecls unwraps the Components.Schemas namespace back into its
// member declarations.
func schemaDecls(types *translate.TypesFile) []ir.Decl {
	return types.Schemas.Decls
}

// operationDecls unwraps the Operations namespace members.
func operationDecls(types *translate.TypesFile) []ir.Decl {
	return types.OpsResult.Decls
}

// schemaRefsOf returns the same-graph references of one schema by its
// Swift short name. Swift names and schema names coincide for defensive
// naming; for idiomatic naming the graph is keyed by the original name, so
// a direct lookup covers both when names are unchanged and degrades to no
// refs otherwise.
func schemaRefsOf(graph *refgraph.Graph, name string) []string {
	return graph.Edges[name]
}
