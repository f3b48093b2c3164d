package payload

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/vectorgov/vectorgov-go/models"
)

// BuildHybridXML serializes a hybrid (dual-lane + graph) result. The root
// carries endpoint="hybrid"; graph-expanded provisions land in
// contexto_normativo with hop/freq attributes, and the metadata section is
// flat, surfacing the server's per-stage timings.
func BuildHybridXML(r *models.HybridResult, level string) (string, error) {
	if err := validateLevel(level); err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	root := doc.CreateElement(packageRoot)
	root.CreateAttr("version", packageVersion)
	root.CreateAttr("level", level)
	root.CreateAttr("endpoint", "hybrid")

	appendInstructionBlock(root, level, r)

	buildHybridConsulta(root, r)
	buildBaseNormativa(root, r.Hits)
	if len(r.GraphNodes) > 0 {
		buildHybridContextoNormativo(root, r.GraphNodes)
	}
	buildNotasEspecialista(root, r.Hits)
	buildJurisprudencia(root, r.Hits)
	buildTrilhaVerificavel(root, r.Hits)
	buildHybridMetadados(root, r)

	doc.Indent(2)
	return doc.WriteToString()
}

func buildHybridConsulta(root *etree.Element, r *models.HybridResult) {
	consulta := root.CreateElement("consulta")
	if r.DocFilterDetectedDocID != "" {
		consulta.CreateAttr("doc_foco", r.DocFilterDetectedDocID)
	}

	consulta.CreateElement("query_original").SetText(r.Query)

	interpreted := r.Query
	if r.QueryRewriteActive && r.QueryRewriteCleanQuery != "" {
		interpreted = r.QueryRewriteCleanQuery
	}
	consulta.CreateElement("query_interpretada").SetText(interpreted)

	// Hybrid confidence comes from the server; it is never recomputed here.
	consulta.CreateElement("confianca_global").SetText(fmt.Sprintf("%.4f", r.Confidence))

	estrategia := r.Mode
	if r.DualLaneActive {
		estrategia += ":dual_lane"
	}
	if r.DocFilterDetectedDocID != "" {
		estrategia += fmt.Sprintf(" (doc_foco=%s)", r.DocFilterDetectedDocID)
	}
	consulta.CreateElement("estrategia").SetText(estrategia)
}

func buildHybridContextoNormativo(root *etree.Element, nodes []models.Hit) {
	ctx := root.CreateElement("contexto_normativo")
	for _, node := range nodes {
		disp := ctx.CreateElement("dispositivo_relacionado")
		disp.CreateAttr("id", node.SpanID)
		disp.CreateAttr("lei", node.DocumentID)
		if node.DeviceType != "" {
			label := node.DeviceType
			if pt, ok := deviceTypeLabels[node.DeviceType]; ok {
				label = pt
			}
			disp.CreateAttr("tipo", label)
		}
		disp.CreateAttr("hop", strconv.Itoa(node.Hop))
		if node.Frequency != 0 {
			disp.CreateAttr("freq", strconv.Itoa(node.Frequency))
		}
		disp.SetText(node.Text)
	}
}

func buildHybridMetadados(root *etree.Element, r *models.HybridResult) {
	meta := root.CreateElement("metadados")
	meta.CreateElement("pipeline").SetText(pipelineName)
	meta.CreateElement("tempo_total_ms").SetText(strconv.Itoa(int(r.SearchTimeMS)))

	if len(r.Stats) > 0 {
		timings, _ := r.Stats["timings"].(map[string]any)
		for _, pair := range [...]struct{ src, dst string }{
			{"search_ms", "tempo_busca_ms"},
			{"rerank_ms", "tempo_rerank_ms"},
			{"graph_ms", "tempo_grafo_ms"},
		} {
			if v, ok := statInt(timings, pair.src); ok {
				meta.CreateElement(pair.dst).SetText(strconv.Itoa(v))
			}
		}

		if v, ok := statInt(r.Stats, "seeds_count"); ok {
			meta.CreateElement("hits_milvus").SetText(strconv.Itoa(v))
		} else if v, ok := statInt(r.Stats, "hits_milvus"); ok {
			meta.CreateElement("hits_milvus").SetText(strconv.Itoa(v))
		}
		if v, ok := statInt(r.Stats, "graph_nodes"); ok {
			meta.CreateElement("nodes_grafo").SetText(strconv.Itoa(v))
		}
		if v, ok := statInt(r.Stats, "total_chunks"); ok {
			meta.CreateElement("total_chunks").SetText(strconv.Itoa(v))
		}
		if v, ok := statInt(r.Stats, "total_tokens"); ok {
			meta.CreateElement("total_tokens").SetText(strconv.Itoa(v))
		}
	}

	meta.CreateElement("reranker").SetText("true")
	meta.CreateElement("hyde").SetText(strconv.FormatBool(r.HydeUsed))
	meta.CreateElement("grafo_expandido").SetText(strconv.FormatBool(len(r.GraphNodes) > 0))
	meta.CreateElement("cache_hit").SetText(strconv.FormatBool(r.Cached))
}

// statInt reads a numeric stats value, tolerating the types a decoded JSON
// document can carry.
func statInt(stats map[string]any, key string) (int, bool) {
	if stats == nil {
		return 0, false
	}
	switch v := stats[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}
