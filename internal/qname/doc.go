/*
Package qname provides a structured representation of the compiler's qualified
contract names, whose canonical form is `sourceFile:contractName`, e.g.
`tokens/Token.sol:Token`.

Parsing and formatting live here so that the artifact layout derived from a
name is decided in exactly one place.
*/
package qname
