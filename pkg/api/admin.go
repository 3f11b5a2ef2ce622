package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegenerateEmbeddings 运行完整回填处理程序
// 先补缺失的周总结，再补缺失的嵌入，返回实际成功的计数
func (h *Handlers) RegenerateEmbeddings(c *gin.Context) {
	result, err := h.backfill.Run(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "回填失败: " + err.Error(),
		})
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishBackfillCompleted(result); err != nil {
			log.Printf("发布回填完成事件失败: %v\n", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "回填完成",
		"summaries_created":  result.SummariesCreated,
		"embeddings_updated": result.EmbeddingsUpdated,
	})
}

// GenerateSampleData 生成样例数据处理程序
// 破坏性操作：清空全部任务与周总结后重新生成
func (h *Handlers) GenerateSampleData(c *gin.Context) {
	result, err := h.seeder.Run(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "生成样例数据失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "样例数据生成成功",
		"tasks_created":     result.TasksCreated,
		"summaries_created": result.SummariesCreated,
	})
}
