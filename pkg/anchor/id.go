package anchor

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// GenerateAnchorID gera um identificador de âncora único dentro da vida de
// uma versão: timestamp em milissegundos mais um sufixo aleatório em base 36.
// A colisão é improvável, não formalmente garantida; o servidor não valida
// unicidade.
func GenerateAnchorID() string {
	suffix := strconv.FormatUint(rand.Uint64(), 36)
	if len(suffix) > 9 {
		suffix = suffix[:9]
	}
	return fmt.Sprintf("comment-anchor-%d-%s", time.Now().UnixMilli(), suffix)
}
