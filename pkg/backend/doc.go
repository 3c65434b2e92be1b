/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// The backend package contains everything to transform a basic Abstract Syntax
// Tree (AST) into optimized (ahem, not yet) executable code (ahem, bytecode).
package backend
