/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// The ast package contains definitions related with Romualdo's Abstract Syntax
// Tree (AST).
//
// Of particular importance, here we have the definitions of all types
// representing AST nodes, and the Visitor infrastructure.
package ast
