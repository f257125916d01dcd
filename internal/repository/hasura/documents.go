package hasura

// GraphQL documents sent by the server. Each runs with the admin credential,
// so every one of them names the rows it touches explicitly.
const (
	getProfileDocument = `query GetProfile($name: String!, $password: String!) {
  profiles(where: {name: {_eq: $name}, password: {_eq: $password}}, limit: 1) {
    id
    name
  }
}`

	getTasksDocument = `query GetTasks($user_id: uuid!) {
  tasks(where: {user_id: {_eq: $user_id}}, order_by: {created_at: desc}) {
    id
    title
    description
    status
    created_at
    updated_at
    time_logs(order_by: {start_time: desc}) {
      id
      start_time
      end_time
      duration
    }
  }
}`

	createTaskDocument = `mutation CreateTask($user_id: uuid!, $title: String!, $description: String) {
  insert_tasks_one(object: {user_id: $user_id, title: $title, description: $description}) {
    id
    title
    description
    status
  }
}`

	// Scoped by primary key only; ownership is not checked.
	updateTaskDocument = `mutation UpdateTask($id: uuid!, $set: tasks_set_input!) {
  update_tasks_by_pk(pk_columns: {id: $id}, _set: $set) {
    id
    title
    description
    status
  }
}`

	// Scoped by primary key only; ownership is not checked.
	deleteTaskDocument = `mutation DeleteTask($id: uuid!) {
  delete_tasks_by_pk(id: $id) {
    id
  }
}`

	startTimeLogDocument = `mutation StartTimeLog($task_id: uuid!, $user_id: uuid!, $start_time: timestamptz!) {
  insert_time_logs_one(object: {task_id: $task_id, user_id: $user_id, start_time: $start_time}) {
    id
    start_time
    end_time
  }
}`

	// Closes every open log for the pair, not just the latest.
	stopTimeLogDocument = `mutation StopTimeLog($task_id: uuid!, $user_id: uuid!, $end_time: timestamptz!) {
  update_time_logs(where: {task_id: {_eq: $task_id}, user_id: {_eq: $user_id}, end_time: {_is_null: true}}, _set: {end_time: $end_time}) {
    affected_rows
  }
}`
)
