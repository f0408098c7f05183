package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa os contadores Prometheus do portal.
type Metrics struct {
	CadastrosEnviados prometheus.Counter
	CPFsImportados    prometheus.Counter
	LoginsFalhos      prometheus.Counter
}

// New registra os contadores no registrador padrão.
func New() *Metrics {
	return &Metrics{
		CadastrosEnviados: promauto.NewCounter(prometheus.CounterOpts{
			Name: "recadastro_cadastros_enviados_total",
			Help: "Total de cadastros gravados com sucesso",
		}),
		CPFsImportados: promauto.NewCounter(prometheus.CounterOpts{
			Name: "recadastro_cpfs_importados_total",
			Help: "Total de CPFs adicionados à base autorizada via importação",
		}),
		LoginsFalhos: promauto.NewCounter(prometheus.CounterOpts{
			Name: "recadastro_logins_admin_falhos_total",
			Help: "Total de tentativas de login administrativo rejeitadas",
		}),
	}
}
