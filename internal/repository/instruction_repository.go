package repository

import (
	"context"
	"time"

	"sparksound/internal/model"

	"github.com/jmoiron/sqlx"
)

// InstructionRepository 指令存储库
type InstructionRepository struct {
	db *sqlx.DB
}

// NewInstructionRepository 创建指令存储库实例
func NewInstructionRepository(db *sqlx.DB) *InstructionRepository {
	return &InstructionRepository{db: db}
}

// Create 创建指令
func (r *InstructionRepository) Create(ctx context.Context, i *model.Instruction) error {
	query := `
		INSERT INTO instructions
			(id, admin_id, target_user_id, original_text, original_language, audio_url, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		i.ID, i.AdminID, i.TargetUserID, i.OriginalText, i.OriginalLanguage, i.AudioURL, i.Status, i.CreatedAt)
	return err
}

// GetByID 根据ID获取指令
func (r *InstructionRepository) GetByID(ctx context.Context, id string) (*model.Instruction, error) {
	var instruction model.Instruction
	query := "SELECT * FROM instructions WHERE id = ?"
	err := r.db.GetContext(ctx, &instruction, query, id)
	if err != nil {
		return nil, err
	}
	return &instruction, nil
}

// ListForViewer 获取对指定用户可见的最新指令（定向给该用户或广播）
// includeHandled为false时排除已接受/已拒绝的指令
func (r *InstructionRepository) ListForViewer(ctx context.Context, userID int64, limit int, includeHandled bool) ([]model.Instruction, error) {
	var instructions []model.Instruction
	query := `
		SELECT * FROM instructions
		WHERE (target_user_id = ? OR target_user_id IS NULL)
	`
	args := []interface{}{userID}
	if !includeHandled {
		query += " AND status = ?"
		args = append(args, model.InstructionStatusPending)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	err := r.db.SelectContext(ctx, &instructions, query, args...)
	if err != nil {
		return nil, err
	}
	return instructions, nil
}

// ListBroadcast 获取最新的广播指令（匿名访问时使用）
func (r *InstructionRepository) ListBroadcast(ctx context.Context, limit int) ([]model.Instruction, error) {
	var instructions []model.Instruction
	query := `
		SELECT * FROM instructions
		WHERE target_user_id IS NULL
		ORDER BY created_at DESC LIMIT ?
	`
	err := r.db.SelectContext(ctx, &instructions, query, limit)
	if err != nil {
		return nil, err
	}
	return instructions, nil
}

// ListAdmin 管理员获取指令列表（分页，含全部状态）
func (r *InstructionRepository) ListAdmin(ctx context.Context, page, limit int) ([]model.Instruction, error) {
	var instructions []model.Instruction
	offset := (page - 1) * limit

	query := `
		SELECT * FROM instructions
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	err := r.db.SelectContext(ctx, &instructions, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return instructions, nil
}

// Count 获取指令总数
func (r *InstructionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM instructions"
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatus 更新指令状态（接受/拒绝）
func (r *InstructionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := "UPDATE instructions SET status = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// DeleteOlderThan 删除早于指定时间的指令，返回删除条数
func (r *InstructionRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := "DELETE FROM instructions WHERE created_at < ?"
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
