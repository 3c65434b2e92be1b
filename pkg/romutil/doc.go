/******************************************************************************\
* The Romualdo Language                                                        *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// The romutil ("Romualdo utils") package contains assorted utilities used in
// various other Romualdo packages. Now, that's a clever way of having a "util"
// package without having a "util" package!
package romutil
