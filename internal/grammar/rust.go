package grammar

import (
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/dusk-indust/archparse/internal/skeleton"
	"github.com/dusk-indust/archparse/internal/syntax"
)

func rustSpec() *langSpec {
	return &langSpec{
		info: syntax.LanguageInfo{
			Name:          "Rust",
			Extensions:    []string{".rs"},
			ParserVersion: "tree-sitter-rust 0.24.0",
		},
		language: tree_sitter_rust.Language,
		comments: CommentSyntax{
			Line:   []string{"//"},
			Block:  []BlockComment{cBlock},
			Nested: true,
			// Raw strings first; b"" and br"" fall out of the byte-wise scan.
			Quotes: []Quote{
				{Open: `r###"`, Close: `"###`, Multiline: true, Raw: true},
				{Open: `r##"`, Close: `"##`, Multiline: true, Raw: true},
				{Open: `r#"`, Close: `"#`, Multiline: true, Raw: true},
				{Open: `r"`, Close: `"`, Multiline: true, Raw: true},
				{Open: `"`, Close: `"`, Multiline: true},
			},
			CharLiterals: true,
		},
		branches: kinds(
			"if_expression",
			"while_expression",
			"loop_expression",
			"for_expression",
			"match_arm",
			"&&", "||",
		),
		style:  skeleton.BraceStyle,
		deps:   rustDependencies,
		export: rustExport,
		decl:   rustDeclaration,
		public: rustPublic,
	}
}

func rustDependencies(t *syntax.Tree, n *syntax.Node) []syntax.Dependency {
	switch n.Kind {
	case "use_declaration":
		// The argument is a scoped_identifier, use_wildcard or use_list; the
		// full text is the specifier.
		if arg := n.ChildByField("argument"); arg != nil {
			return dependency(syntax.DependencyUse, t.Text(arg), n)
		}
	case "extern_crate_declaration":
		return dependency(syntax.DependencyExternCrate, nameOf(t, n), n)
	case "mod_item":
		// "mod foo;" pulls in another file; inline modules do not.
		if n.ChildByField("body") == nil {
			return dependency(syntax.DependencyMod, nameOf(t, n), n)
		}
	}
	return nil
}

func rustExport(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) []syntax.ExportedSymbol {
	var kind syntax.SymbolKind
	switch n.Kind {
	case "function_item", "function_signature_item":
		kind = syntax.SymbolKindFunction
		if rustOwner(n, parents) != nil {
			kind = syntax.SymbolKindMethod
		}
	case "struct_item", "union_item", "type_item":
		kind = syntax.SymbolKindType
	case "enum_item":
		kind = syntax.SymbolKindEnum
	case "trait_item":
		kind = syntax.SymbolKindInterface
	case "const_item":
		kind = syntax.SymbolKindConstant
	case "static_item":
		kind = syntax.SymbolKindVariable
	case "mod_item":
		kind = syntax.SymbolKindModule
	default:
		return nil
	}

	if !rustPublic(t, n, parents) {
		return nil
	}
	return []syntax.ExportedSymbol{symbol(nameOf(t, n), kind, n)}
}

// rustOwner returns the impl or trait whose body holds n, if any.
func rustOwner(n *syntax.Node, parents syntax.Parents) *syntax.Node {
	list := parents.Of(n)
	if list == nil || list.Kind != "declaration_list" {
		return nil
	}
	owner := parents.Of(list)
	if owner != nil && (owner.Kind == "impl_item" || owner.Kind == "trait_item") {
		return owner
	}
	return nil
}

func rustDeclaration(_ *syntax.Tree, n *syntax.Node) (skeleton.Decl, bool) {
	switch n.Kind {
	case "use_declaration", "extern_crate_declaration", "function_signature_item",
		"struct_item", "enum_item", "union_item", "type_item", "const_item", "static_item":
		return verbatim(n)
	case "function_item":
		return elided(n, n.ChildByField("body"))
	case "mod_item", "trait_item", "impl_item":
		return container(n, n.ChildByField("body"))
	}
	return skeleton.Decl{}, false
}

func rustPublic(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) bool {
	switch n.Kind {
	case "use_declaration", "extern_crate_declaration":
		return false
	case "impl_item":
		// Impl blocks carry no visibility; their members decide.
		return rustModulePublic(t, n, parents)
	}

	if owner := rustOwner(n, parents); owner != nil {
		// Trait members and trait impl members follow the trait or impl.
		if owner.Kind == "trait_item" || owner.ChildByField("trait") != nil {
			return rustPublic(t, owner, parents)
		}
	}

	if p := parents.Of(n); p != nil && p.Kind == "block" {
		return false
	}
	vis := n.ChildOfKind("visibility_modifier")
	// pub(crate) and friends are not part of the public API.
	if vis == nil || t.Text(vis) != "pub" {
		return false
	}
	return rustModulePublic(t, n, parents)
}

// rustModulePublic reports whether every inline module around n is pub.
// Impl and trait bodies are looked through to the module holding them.
func rustModulePublic(t *syntax.Tree, n *syntax.Node, parents syntax.Parents) bool {
	list := parents.Of(n)
	if list == nil || list.Kind != "declaration_list" {
		return true
	}
	owner := parents.Of(list)
	switch {
	case owner == nil:
		return true
	case owner.Kind == "mod_item":
		return rustPublic(t, owner, parents)
	default:
		return rustModulePublic(t, owner, parents)
	}
}
