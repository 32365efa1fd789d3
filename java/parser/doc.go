// Package parser reads the declaration skeleton of Java source files.
//
// The tree it produces keeps everything that contributes to a type's
// externally visible shape: the package clause, imports, type declarations
// and their members, type parameters, types, parameters, throws lists and
// supertype clauses. Executable code is never parsed. Method bodies,
// initializer blocks, non-trivial field initializers, enum constant
// arguments and annotation arguments are skipped by bracket balancing and
// left behind as Skipped nodes that only carry a span.
//
// Shapes of the interesting nodes:
//
//	ClassDecl       Modifiers Identifier TypeParameters? ExtendsClause? ImplementsClause? PermitsClause? Body
//	InterfaceDecl   Modifiers Identifier TypeParameters? ExtendsClause? PermitsClause? Body
//	EnumDecl        Modifiers Identifier ImplementsClause? Body(EnumConstant* member*)
//	EnumConstant    Modifiers Identifier Skipped? Body?
//	RecordDecl      Modifiers Identifier TypeParameters? Parameters ImplementsClause? Body
//	AnnotationDecl  Modifiers Identifier Body
//	MethodDecl      Modifiers TypeParameters? Type Identifier Parameters Dims? ThrowsList? DefaultValue? Skipped?
//	ConstructorDecl Modifiers TypeParameters? Identifier Parameters? ThrowsList? Skipped
//	FieldDecl       Modifiers Type VariableDeclarator+
//	Parameter       Modifiers Type Ellipsis? Identifier Dims?
//	Type            Annotation* Identifier+   (each segment may carry TypeArguments)
//	ArrayType       Type | ArrayType
//
// Syntax errors never stop the parse. They are recorded as Error nodes and
// the parser resynchronises at the next member or type declaration.
package parser
